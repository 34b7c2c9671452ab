// Package output prints the parsed type forest in the formats the CLI
// supports. The HTML report has its own package; everything terminal-bound
// lives here.
package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"

	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is the human-readable indented layout (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
	// FormatTable is a tabular summary of top-level types.
	FormatTable Format = "table"
	// FormatTree is an ASCII tree per type.
	FormatTree Format = "tree"
)

// ParseFormat converts a string to a Format. Empty defaults to FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatTable:
		return FormatTable, nil
	case FormatTree:
		return FormatTree, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|yaml|table|tree)")
	}
}

// IsStructured reports whether the format is machine-readable structured
// output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Printer writes the type forest to w in the configured format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// Print outputs the forest. The order of types is the caller's and is never
// changed here.
func (p *Printer) Print(ctx context.Context, types []*sizes.Type) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, types)
	case FormatYAML:
		return p.printYAML(types)
	case FormatTable:
		return p.printTable(types)
	case FormatTree:
		return p.printTree(types)
	case FormatText:
		return p.printText(types)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printJSON outputs the forest as pretty-printed JSON. If a jq query is
// present in the context, it filters the output instead.
func (p *Printer) printJSON(ctx context.Context, types []*sizes.Type) error {
	query := QueryFromContext(ctx)
	if query == "" {
		enc := json.NewEncoder(p.w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(types)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	// gojq operates on plain JSON values, so round-trip the forest first.
	data, err := normalize(types)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)

	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}

	return nil
}

func (p *Printer) printYAML(types []*sizes.Type) error {
	// yaml.v3 does not consult MarshalJSON, so round-trip through JSON to
	// keep kind tags and omitted offsets consistent across formats.
	data, err := normalize(types)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func normalize(types []*sizes.Type) (interface{}, error) {
	raw, err := json.Marshal(types)
	if err != nil {
		return nil, err
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// printText writes the forest in the same shape the compiler prints it,
// minus the line prefix.
func (p *Printer) printText(types []*sizes.Type) error {
	for _, t := range types {
		if _, err := fmt.Fprintf(p.w, "type `%s`: %d bytes, alignment: %d bytes\n",
			t.Name, t.Size, t.Alignment); err != nil {
			return err
		}
		if err := p.printTextChildren(t.Children, 1); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printTextChildren(children []sizes.Node, depth int) error {
	indent := strings.Repeat(" ", depth*sizes.IndentWidth)
	for _, child := range children {
		line := indent + string(child.NodeKind())
		if name := sizes.NodeName(child); name != "" {
			line += fmt.Sprintf(" `%s`", name)
		}
		line += fmt.Sprintf(": %d bytes", sizes.NodeSize(child))
		if field, ok := child.(*sizes.Field); ok {
			if field.Offset != nil {
				line += fmt.Sprintf(", offset: %d bytes", *field.Offset)
			}
			if field.Alignment != nil {
				line += fmt.Sprintf(", alignment: %d bytes", *field.Alignment)
			}
		}
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
		if err := p.printTextChildren(sizes.NodeChildren(child), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printTable writes a summary row per top-level type.
func (p *Printer) printTable(types []*sizes.Type) error {
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tALIGN\tNODES")
	for _, t := range types {
		nodes := 0
		sizes.Walk(t, func(sizes.Node) { nodes++ })
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", t.Name, t.Size, t.Alignment, nodes-1)
	}
	return tw.Flush()
}
