package sizes

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// IndentWidth is the fixed indentation unit of print-type-size output.
const IndentWidth = 4

// linePrefix selects the diagnostic lines; everything else in the compiler
// output (warnings, notes, progress) is skipped.
const linePrefix = "print-type-size "

var (
	// type: `NAME`: N bytes, alignment: M bytes
	typePattern = regexp.MustCompile("^type: `([^`]+)`: (\\S+) bytes, alignment: (\\S+) bytes$")

	// <indent>KIND [`NAME`]: attributes
	// The numeric attributes are validated separately so that a recognized
	// marker with a garbled number fails loudly instead of being dropped.
	innerPattern = regexp.MustCompile("^(\\s+)(end padding|padding|variant|field|discriminant)(?: `([^`]+)`| ([^:]+))?: (.+)$")

	attrPattern = regexp.MustCompile(`^(?:(offset|alignment): )?(\S+) bytes$`)
)

// Line is one classified print-type-size line: its nesting depth, node kind
// and the attributes the marker carries.
type Line struct {
	Number    int // 1-based position in the raw input
	Depth     int
	Kind      Kind
	Name      string
	Size      int
	Offset    *int
	Alignment *int
	Text      string // payload after the print-type-size prefix
}

// Tokenize reads raw compiler output and produces the classified line stream
// in input order. Lines without the print-type-size prefix, and prefixed
// lines matching no known marker, are skipped. A marker line with an
// unparsable numeric attribute returns MalformedInputError.
func Tokenize(r io.Reader) ([]Line, error) {
	var lines []Line

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	number := 0
	for scanner.Scan() {
		number++
		raw := scanner.Text()

		payload, ok := strings.CutPrefix(raw, linePrefix)
		if !ok {
			continue
		}

		line, ok, err := classify(payload, number)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func classify(payload string, number int) (Line, bool, error) {
	if m := typePattern.FindStringSubmatch(payload); m != nil {
		line := Line{
			Number: number,
			Depth:  0,
			Kind:   KindType,
			Name:   m[1],
			Text:   payload,
		}

		size, err := parseInt(m[2], "size", line)
		if err != nil {
			return Line{}, false, err
		}
		align, err := parseInt(m[3], "alignment", line)
		if err != nil {
			return Line{}, false, err
		}
		line.Size = size
		line.Alignment = &align
		return line, true, nil
	}

	m := innerPattern.FindStringSubmatch(payload)
	if m == nil {
		// Unknown line kind: tolerated noise, no effect on depth bookkeeping.
		return Line{}, false, nil
	}

	indent, kind, name, bareName, attrs := m[1], m[2], m[3], m[4], m[5]

	line := Line{
		Number: number,
		Depth:  len(indent) / IndentWidth,
		Kind:   Kind(kind),
		Name:   fieldName(name, bareName),
		Text:   payload,
	}

	if err := parseAttrs(attrs, &line); err != nil {
		return Line{}, false, err
	}

	return line, true, nil
}

// fieldName normalizes the name captured from a marker line. Field names are
// printed with a leading dot (`.a`); the dot is presentation, not identity.
func fieldName(quoted, bare string) string {
	name := quoted
	if name == "" {
		name = strings.TrimSpace(bare)
	}
	return strings.TrimPrefix(name, ".")
}

// parseAttrs fills size/offset/alignment from a comma-separated attribute
// list like "8 bytes, offset: 0 bytes, alignment: 8 bytes".
func parseAttrs(attrs string, line *Line) error {
	for i, part := range strings.Split(attrs, ", ") {
		m := attrPattern.FindStringSubmatch(part)
		if m == nil {
			// First attribute is always the size; anything unparsable there
			// is a malformed size, later unknown attributes are dropped.
			if i == 0 {
				return MalformedInputError{LineNo: line.Number, Line: line.Text, Field: "size"}
			}
			continue
		}

		field := m[1]
		if field == "" {
			field = "size"
		}
		value, err := parseInt(m[2], field, *line)
		if err != nil {
			return err
		}

		switch field {
		case "size":
			line.Size = value
		case "offset":
			offset := value
			line.Offset = &offset
		case "alignment":
			align := value
			line.Alignment = &align
		}
	}
	return nil
}

func parseInt(s, field string, line Line) (int, error) {
	value, err := strconv.Atoi(s)
	if err != nil || value < 0 {
		return 0, MalformedInputError{LineNo: line.Number, Line: line.Text, Field: field}
	}
	return value, nil
}
