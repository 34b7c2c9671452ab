package sizes

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind identifies a node variant. The tag is the single source of truth for
// what a node is; any string label used for presentation is derived from it.
type Kind string

const (
	KindType         Kind = "type"
	KindVariant      Kind = "variant"
	KindField        Kind = "field"
	KindPadding      Kind = "padding"
	KindEndPadding   Kind = "end padding"
	KindDiscriminant Kind = "discriminant"
)

// Node is one entry of a type-layout tree. The set of implementations is
// closed: Type, Variant, Field, Padding, EndPadding and Discriminant.
// Consumers type-switch over these rather than inspecting attributes.
type Node interface {
	NodeKind() Kind
}

// Type is a top-level reported entity: one Rust type whose memory layout the
// compiler printed. Children preserve input order.
type Type struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Alignment int    `json:"alignment"`
	Children  []Node `json:"children,omitempty"`
}

// Variant is one arm of a sum-like type. Its name may be empty for anonymous
// variants.
type Variant struct {
	Name     string `json:"name,omitempty"`
	Size     int    `json:"size"`
	Children []Node `json:"children,omitempty"`
}

// Field is a named or positional member. Offset and Alignment are optional in
// compiler output; nil means absent, which is distinct from zero. A field may
// own children when the compiler inlines the layout of its own type.
type Field struct {
	Name      string `json:"name"`
	Size      int    `json:"size"`
	Offset    *int   `json:"offset,omitempty"`
	Alignment *int   `json:"alignment,omitempty"`
	Children  []Node `json:"children,omitempty"`
}

// Padding is a synthetic node for unused bytes between fields.
type Padding struct {
	Size int `json:"size"`
}

// EndPadding is a synthetic node for unused bytes at the end of a layout.
type EndPadding struct {
	Size int `json:"size"`
}

// Discriminant is the tag of a sum-like type.
type Discriminant struct {
	Size int `json:"size"`
}

func (*Type) NodeKind() Kind         { return KindType }
func (*Variant) NodeKind() Kind      { return KindVariant }
func (*Field) NodeKind() Kind        { return KindField }
func (*Padding) NodeKind() Kind      { return KindPadding }
func (*EndPadding) NodeKind() Kind   { return KindEndPadding }
func (*Discriminant) NodeKind() Kind { return KindDiscriminant }

func (n *Type) MarshalJSON() ([]byte, error) {
	type alias Type
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

func (n *Variant) MarshalJSON() ([]byte, error) {
	type alias Variant
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

func (n *Field) MarshalJSON() ([]byte, error) {
	type alias Field
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

func (n *Padding) MarshalJSON() ([]byte, error) {
	type alias Padding
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

func (n *EndPadding) MarshalJSON() ([]byte, error) {
	type alias EndPadding
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

func (n *Discriminant) MarshalJSON() ([]byte, error) {
	type alias Discriminant
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
		*alias
	}{n.NodeKind(), (*alias)(n)})
}

// NodeChildren returns the child list of n, or nil for leaf kinds.
func NodeChildren(n Node) []Node {
	switch v := n.(type) {
	case *Type:
		return v.Children
	case *Variant:
		return v.Children
	case *Field:
		return v.Children
	default:
		return nil
	}
}

// NodeName returns the display name of n, or "" for anonymous and synthetic
// nodes.
func NodeName(n Node) string {
	switch v := n.(type) {
	case *Type:
		return v.Name
	case *Variant:
		return v.Name
	case *Field:
		return v.Name
	default:
		return ""
	}
}

// NodeSize returns the reported size of n in bytes.
func NodeSize(n Node) int {
	switch v := n.(type) {
	case *Type:
		return v.Size
	case *Variant:
		return v.Size
	case *Field:
		return v.Size
	case *Padding:
		return v.Size
	case *EndPadding:
		return v.Size
	case *Discriminant:
		return v.Size
	}
	return 0
}

// Walk visits n and all of its descendants depth-first in child order.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, child := range NodeChildren(n) {
		Walk(child, fn)
	}
}

// nameSepPattern splits qualified type names on path separators, function
// arrows and generic brackets.
var nameSepPattern = regexp.MustCompile(`::|<|>|->`)

// NameSegment is one display chunk of a qualified name, annotated with the
// angle-bracket nesting level it sits at.
type NameSegment struct {
	Text  string
	Level int
}

// SplitName breaks a qualified name like "std::vec::Vec<alloc::Global>" into
// segments annotated with bracket depth. It is a derived view for display
// purposes; the tree itself stores only the raw name.
func SplitName(name string) []NameSegment {
	var segments []NameSegment
	i := 0
	level := 0

	for _, span := range nameSepPattern.FindAllStringIndex(name, -1) {
		start, end := span[0], span[1]
		sep := name[start:end]

		if start > i {
			segments = append(segments, NameSegment{Text: name[i:start], Level: level})
		}

		if sep == "<" {
			level++
		}
		segments = append(segments, NameSegment{Text: sep, Level: level})
		if sep == ">" {
			level--
			if level < 0 {
				level = 0
			}
		}

		i = end
	}

	if i < len(name) {
		segments = append(segments, NameSegment{Text: name[i:], Level: level})
	}

	return segments
}

// TrimName shortens name to at most max characters, appending an ellipsis and
// re-balancing any angle brackets the cut left open so the result never shows
// an unmatched "<". A max of 0 or less disables trimming.
func TrimName(name string, max int) string {
	runes := []rune(name)
	if max <= 0 || len(runes) <= max {
		return name
	}

	trimmed := string(runes[:max]) + "…"

	var left, right int
	for _, span := range nameSepPattern.FindAllString(trimmed, -1) {
		switch span {
		case "<":
			left++
		case ">":
			right++
		}
	}
	if right < left {
		trimmed += strings.Repeat(">", left-right)
	}

	return trimmed
}

// TrimNames applies TrimName to every named node in the forest, in place.
func TrimNames(types []*Type, max int) {
	if max <= 0 {
		return
	}
	for _, t := range types {
		Walk(t, func(n Node) {
			switch v := n.(type) {
			case *Type:
				v.Name = TrimName(v.Name, max)
			case *Variant:
				v.Name = TrimName(v.Name, max)
			case *Field:
				v.Name = TrimName(v.Name, max)
			}
		})
	}
}
