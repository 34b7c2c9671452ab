package sizes

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSplitName(t *testing.T) {
	segments := SplitName("std::vec::Vec<alloc::Global>")

	var rebuilt strings.Builder
	for _, s := range segments {
		rebuilt.WriteString(s.Text)
	}
	if rebuilt.String() != "std::vec::Vec<alloc::Global>" {
		t.Fatalf("segments do not reassemble the name: %q", rebuilt.String())
	}

	// The generic parameter sits inside one bracket level.
	var sawInner bool
	for _, s := range segments {
		if s.Text == "alloc" && s.Level == 1 {
			sawInner = true
		}
		if s.Text == "std" && s.Level != 0 {
			t.Fatalf("path root should be at level 0, got %d", s.Level)
		}
	}
	if !sawInner {
		t.Fatalf("expected bracket level 1 for generic argument, got %+v", segments)
	}
}

func TestSplitNameFunctionArrow(t *testing.T) {
	segments := SplitName("fn(usize) -> bool")

	var sawArrow bool
	for _, s := range segments {
		if s.Text == "->" {
			sawArrow = true
		}
	}
	if !sawArrow {
		t.Fatalf("expected arrow separator segment, got %+v", segments)
	}
}

func TestSplitNameUnbalancedBrackets(t *testing.T) {
	// A stray closing bracket must not push the level below zero.
	for _, s := range SplitName("Weird>Name") {
		if s.Level < 0 {
			t.Fatalf("negative bracket level for %+v", s)
		}
	}
}

func TestTrimNameShortUnchanged(t *testing.T) {
	if got := TrimName("Foo", 120); got != "Foo" {
		t.Fatalf("short name must be unchanged, got %q", got)
	}
	if got := TrimName("Foo", 0); got != "Foo" {
		t.Fatalf("max 0 disables trimming, got %q", got)
	}
}

func TestTrimNameRebalancesBrackets(t *testing.T) {
	name := "Vec<HashMap<String, Value>>"

	got := TrimName(name, 8)
	if !strings.HasPrefix(got, "Vec<Hash") {
		t.Fatalf("unexpected prefix: %q", got)
	}
	if !strings.Contains(got, "…") {
		t.Fatalf("expected ellipsis in %q", got)
	}

	var left, right int
	for _, r := range got {
		switch r {
		case '<':
			left++
		case '>':
			right++
		}
	}
	if left != right {
		t.Fatalf("unbalanced brackets in %q", got)
	}
}

func TestTrimNamesWalksTree(t *testing.T) {
	long := strings.Repeat("x", 50)
	typ := &Type{
		Name: long,
		Children: []Node{
			&Variant{Name: long, Children: []Node{
				&Field{Name: long},
			}},
			&Padding{Size: 4},
		},
	}

	TrimNames([]*Type{typ}, 10)

	if len([]rune(typ.Name)) != 11 { // 10 + ellipsis
		t.Fatalf("type name not trimmed: %q", typ.Name)
	}
	variant := typ.Children[0].(*Variant)
	if !strings.HasSuffix(variant.Name, "…") {
		t.Fatalf("variant name not trimmed: %q", variant.Name)
	}
	field := variant.Children[0].(*Field)
	if !strings.HasSuffix(field.Name, "…") {
		t.Fatalf("field name not trimmed: %q", field.Name)
	}
}

func TestNodeJSONCarriesKind(t *testing.T) {
	offset := 8
	typ := &Type{
		Name:      "Foo",
		Size:      16,
		Alignment: 8,
		Children: []Node{
			&Field{Name: "a", Size: 8, Offset: &offset},
			&Field{Name: "b", Size: 8},
			&EndPadding{Size: 2},
		},
	}

	raw, err := json.Marshal(typ)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind   string `json:"kind"`
			Offset *int   `json:"offset"`
		} `json:"children"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded.Kind != "type" {
		t.Fatalf("expected kind 'type', got %q", decoded.Kind)
	}
	if decoded.Children[0].Kind != "field" || decoded.Children[2].Kind != "end padding" {
		t.Fatalf("unexpected child kinds: %+v", decoded.Children)
	}

	// Absent offset must not serialize as 0.
	if decoded.Children[0].Offset == nil || *decoded.Children[0].Offset != 8 {
		t.Fatalf("expected offset 8, got %v", decoded.Children[0].Offset)
	}
	if decoded.Children[1].Offset != nil {
		t.Fatalf("absent offset leaked into JSON: %v", *decoded.Children[1].Offset)
	}
}

func TestWalkOrder(t *testing.T) {
	typ := &Type{Name: "T", Children: []Node{
		&Variant{Name: "A", Children: []Node{&Field{Name: "x"}}},
		&Variant{Name: "B"},
	}}

	var visited []string
	Walk(typ, func(n Node) {
		visited = append(visited, string(n.NodeKind())+":"+NodeName(n))
	})

	want := []string{"type:T", "variant:A", "field:x", "variant:B"}
	if len(visited) != len(want) {
		t.Fatalf("expected %d visits, got %v", len(want), visited)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visit %d: expected %q, got %q", i, want[i], visited[i])
		}
	}
}
