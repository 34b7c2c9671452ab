package sizes

import (
	"errors"
	"strings"
	"testing"
)

func TestTokenizeTypeHeader(t *testing.T) {
	input := "print-type-size type: `Foo`: 16 bytes, alignment: 8 bytes\n"

	lines, err := Tokenize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}

	line := lines[0]
	if line.Kind != KindType {
		t.Fatalf("expected type kind, got %q", line.Kind)
	}
	if line.Depth != 0 {
		t.Fatalf("expected depth 0, got %d", line.Depth)
	}
	if line.Name != "Foo" || line.Size != 16 {
		t.Fatalf("unexpected header attributes: %+v", line)
	}
	if line.Alignment == nil || *line.Alignment != 8 {
		t.Fatalf("expected alignment 8, got %v", line.Alignment)
	}
}

func TestTokenizeInnerKinds(t *testing.T) {
	input := strings.Join([]string{
		"print-type-size     discriminant: 1 bytes",
		"print-type-size     variant `Some`: 12 bytes",
		"print-type-size         field `.0`: 8 bytes, offset: 0 bytes, alignment: 8 bytes",
		"print-type-size         padding: 4 bytes",
		"print-type-size     end padding: 3 bytes",
	}, "\n")

	lines, err := Tokenize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	wantKinds := []Kind{KindDiscriminant, KindVariant, KindField, KindPadding, KindEndPadding}
	wantDepths := []int{1, 1, 2, 2, 1}
	for i, line := range lines {
		if line.Kind != wantKinds[i] {
			t.Fatalf("line %d: expected kind %q, got %q", i, wantKinds[i], line.Kind)
		}
		if line.Depth != wantDepths[i] {
			t.Fatalf("line %d: expected depth %d, got %d", i, wantDepths[i], line.Depth)
		}
	}

	field := lines[2]
	if field.Name != "0" {
		t.Fatalf("expected positional field name '0', got %q", field.Name)
	}
	if field.Offset == nil || *field.Offset != 0 {
		t.Fatalf("expected offset 0, got %v", field.Offset)
	}
	if field.Alignment == nil || *field.Alignment != 8 {
		t.Fatalf("expected alignment 8, got %v", field.Alignment)
	}
}

func TestTokenizeOffsetAbsentIsNotZero(t *testing.T) {
	input := "print-type-size     field `.a`: 8 bytes\n"

	lines, err := Tokenize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Offset != nil {
		t.Fatalf("expected absent offset, got %d", *lines[0].Offset)
	}
}

func TestTokenizeSkipsChatterAndUnknownLines(t *testing.T) {
	input := strings.Join([]string{
		"warning: unused variable: `x`",
		"print-type-size type: `Foo`: 16 bytes, alignment: 8 bytes",
		"print-type-size note: something new the compiler started printing",
		"   Compiling foo v0.1.0",
		"print-type-size     field `.a`: 8 bytes",
		"",
	}, "\n")

	lines, err := Tokenize(strings.NewReader(input))
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 classified lines, got %d", len(lines))
	}
	if lines[0].Kind != KindType || lines[1].Kind != KindField {
		t.Fatalf("unexpected kinds: %q, %q", lines[0].Kind, lines[1].Kind)
	}
	if lines[1].Number != 5 {
		t.Fatalf("expected source line number 5, got %d", lines[1].Number)
	}
}

func TestTokenizeMalformedFieldSize(t *testing.T) {
	input := strings.Join([]string{
		"print-type-size type: `Foo`: 16 bytes, alignment: 8 bytes",
		"print-type-size     field .c: not-a-number bytes",
	}, "\n")

	_, err := Tokenize(strings.NewReader(input))

	var malformed MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if malformed.Field != "size" {
		t.Fatalf("expected failing field 'size', got %q", malformed.Field)
	}
	if malformed.LineNo != 2 {
		t.Fatalf("expected line 2, got %d", malformed.LineNo)
	}
	if !strings.Contains(malformed.Error(), "not-a-number") {
		t.Fatalf("error should name the offending line, got %q", malformed.Error())
	}
}

func TestTokenizeMalformedTypeAlignment(t *testing.T) {
	input := "print-type-size type: `Foo`: 16 bytes, alignment: eight bytes\n"

	_, err := Tokenize(strings.NewReader(input))

	var malformed MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if malformed.Field != "alignment" {
		t.Fatalf("expected failing field 'alignment', got %q", malformed.Field)
	}
}

func TestTokenizeMalformedOffset(t *testing.T) {
	input := "print-type-size     field `.a`: 8 bytes, offset: ?? bytes\n"

	_, err := Tokenize(strings.NewReader(input))

	var malformed MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInputError, got %v", err)
	}
	if malformed.Field != "offset" {
		t.Fatalf("expected failing field 'offset', got %q", malformed.Field)
	}
}
