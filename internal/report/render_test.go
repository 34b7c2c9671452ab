package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

func sampleForest() []*sizes.Type {
	offset := 8
	return []*sizes.Type{
		{
			Name:      "demo::Message",
			Size:      24,
			Alignment: 8,
			Children: []sizes.Node{
				&sizes.Discriminant{Size: 8},
				&sizes.Variant{Name: "Ping", Size: 16, Children: []sizes.Node{
					&sizes.Field{Name: "0", Size: 8},
					&sizes.Padding{Size: 4},
					&sizes.Field{Name: "1", Size: 8, Offset: &offset},
				}},
			},
		},
		{Name: "demo::Unit", Size: 0, Alignment: 1},
	}
}

func render(t *testing.T, types []*sizes.Type, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	meta := Metadata{
		Package:   "demo",
		Command:   "cargo +nightly rustc -- -Zprint-type-sizes",
		Generated: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := Render(&buf, types, meta, opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestRenderContainsMetadata(t *testing.T) {
	html := render(t, sampleForest(), Options{})

	for _, want := range []string{
		"demo",
		"cargo +nightly rustc",
		"2024-03-01 12:00:00",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}
}

func TestRenderNodeKindsAndNumbers(t *testing.T) {
	html := render(t, sampleForest(), Options{})

	for _, want := range []string{
		`kind-type`,
		`kind-variant`,
		`kind-field`,
		`kind-padding`,
		`kind-discriminant`,
		`24 bytes`,
		`offset 8`,
		`align 8`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output", want)
		}
	}

	// Two fields: one with offset, one without. Only one offset is printed.
	if got := strings.Count(html, "offset "); got != 1 {
		t.Fatalf("expected exactly 1 offset annotation, got %d", got)
	}
}

func TestRenderPreservesOrder(t *testing.T) {
	html := render(t, sampleForest(), Options{})

	first := strings.Index(html, "Message")
	second := strings.Index(html, "Unit")
	if first == -1 || second == -1 || first > second {
		t.Fatalf("top-level order not preserved: Message@%d Unit@%d", first, second)
	}
}

func TestRenderMaxDepth(t *testing.T) {
	html := render(t, sampleForest(), Options{MaxDepth: 1})

	if !strings.Contains(html, "kind-variant") {
		t.Fatal("depth-1 nodes should still render")
	}
	if strings.Contains(html, "kind-field") {
		t.Fatal("depth-2 nodes should be cut by MaxDepth")
	}
}

func TestRenderEscapesNames(t *testing.T) {
	types := []*sizes.Type{{Name: "Evil<script>alert(1)</script>", Size: 8, Alignment: 8}}

	html := render(t, types, Options{})
	if strings.Contains(html, "<script>alert") {
		t.Fatal("type name was not escaped")
	}
}

func TestRenderFallbackPackageName(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, sampleForest(), Metadata{Generated: time.Now()}, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "_unknown_") {
		t.Fatal("expected placeholder package name")
	}
}

func TestWriteCreatesDocumentAndAssets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "type-sizes")

	meta := Metadata{Package: "demo", Generated: time.Now()}
	if err := Write(dir, sampleForest(), meta, Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, name := range []string{IndexFile, "styles.css", "index.js"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing output file %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("output file %s is empty", name)
		}
	}
}
