// Package report renders the parsed type forest as a static HTML document.
// It consumes the forest strictly in the order given; sorting is the caller's
// concern and happens before rendering.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

//go:embed assets
var assets embed.FS

// staticFiles are copied verbatim next to the generated document.
var staticFiles = []string{"styles.css", "index.js"}

// IndexFile is the name of the generated document inside the output dir.
const IndexFile = "index.html"

// Metadata describes the run that produced the input, embedded in the report
// header.
type Metadata struct {
	Package   string
	Command   string
	Generated time.Time
}

// Options control presentation only; they never reorder or drop top-level
// types.
type Options struct {
	// MaxDepth limits how deep nested nodes are rendered; 0 renders
	// everything.
	MaxDepth int
}

// node is the presentation projection of one tree entry. The CSS class is
// derived from the kind tag at render time; the tag itself stays the single
// source of truth.
type node struct {
	Kind      string
	Class     string
	Segments  []sizes.NameSegment
	Size      int
	Offset    *int
	Alignment *int
	Depth     int
	Children  []*node
}

type page struct {
	Package   string
	Command   string
	Generated string
	Types     []*node
}

var reportTemplate = template.Must(
	template.ParseFS(assets, "assets/index.html.tmpl"),
)

// Render writes the HTML document for the given forest to w.
func Render(w io.Writer, types []*sizes.Type, meta Metadata, opts Options) error {
	pkg := meta.Package
	if pkg == "" {
		pkg = "_unknown_"
	}

	data := page{
		Package:   pkg,
		Command:   meta.Command,
		Generated: meta.Generated.Format("2006-01-02 15:04:05"),
	}
	for _, t := range types {
		data.Types = append(data.Types, project(t, 0, opts.MaxDepth))
	}

	return reportTemplate.ExecuteTemplate(w, "index.html.tmpl", data)
}

// Write renders the document plus its static assets into dir, creating it if
// needed.
func Write(dir string, types []*sizes.Type, meta Metadata, opts Options) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	out, err := os.Create(filepath.Join(dir, IndexFile))
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := Render(out, types, meta, opts); err != nil {
		out.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	for _, name := range staticFiles {
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return fmt.Errorf("reading embedded asset %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing asset %s: %w", name, err)
		}
	}

	return nil
}

// project builds the render tree for n. Children deeper than maxDepth are
// dropped from presentation; the parsed tree is untouched.
func project(n sizes.Node, depth, maxDepth int) *node {
	kind := string(n.NodeKind())
	out := &node{
		Kind:  kind,
		Class: strings.ReplaceAll(kind, " ", "-"),
		Size:  sizes.NodeSize(n),
		Depth: depth,
	}

	if name := sizes.NodeName(n); name != "" {
		out.Segments = sizes.SplitName(name)
	}

	switch v := n.(type) {
	case *sizes.Type:
		align := v.Alignment
		out.Alignment = &align
	case *sizes.Field:
		out.Offset = v.Offset
		out.Alignment = v.Alignment
	}

	if maxDepth > 0 && depth >= maxDepth {
		return out
	}
	for _, child := range sizes.NodeChildren(n) {
		out.Children = append(out.Children, project(child, depth+1, maxDepth))
	}

	return out
}
