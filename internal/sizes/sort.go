package sizes

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// SortKey selects the attribute top-level types are ordered by.
type SortKey string

const (
	SortBySize      SortKey = "size"
	SortByName      SortKey = "name"
	SortByAlignment SortKey = "alignment"
)

// ParseSortKey converts a string to a SortKey. Empty defaults to size.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortBySize, "":
		return SortBySize, nil
	case SortByName:
		return SortByName, nil
	case SortByAlignment:
		return SortByAlignment, nil
	default:
		return "", errors.New("invalid sort key (expected size|name|alignment)")
	}
}

// DefaultDescending reports the conventional direction for a key: largest
// first for numeric keys, lexicographic for names.
func (k SortKey) DefaultDescending() bool {
	return k != SortByName
}

// Sort returns a new slice with the same Type entities ordered by key. The
// sort is stable: ties keep their input order. The trees themselves are
// never touched.
func Sort(types []*Type, key SortKey, descending bool) []*Type {
	sorted := make([]*Type, len(types))
	copy(sorted, types)

	less := func(a, b *Type) bool {
		switch key {
		case SortByName:
			return a.Name < b.Name
		case SortByAlignment:
			return a.Alignment < b.Alignment
		default:
			return a.Size < b.Size
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// ExcludeStdPattern matches types from the Rust standard library roots.
const ExcludeStdPattern = `^(std|core)::`

// Filter selects top-level types before sorting. All criteria must hold for
// a type to be kept. Filters never mutate the trees.
type Filter struct {
	// NameContains keeps only types whose qualified name contains the
	// substring.
	NameContains string
	// MinSize keeps only types of at least this many bytes.
	MinSize int
	// Include keeps only types matching at least one of the patterns, when
	// any are given.
	Include []*regexp.Regexp
	// Exclude drops types matching any of the patterns.
	Exclude []*regexp.Regexp
}

// NewFilter compiles include/exclude regex lists into a Filter.
func NewFilter(nameContains string, minSize int, include, exclude []string) (Filter, error) {
	f := Filter{NameContains: nameContains, MinSize: minSize}

	for _, expr := range include {
		p, err := regexp.Compile(expr)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid include pattern %q: %w", expr, err)
		}
		f.Include = append(f.Include, p)
	}
	for _, expr := range exclude {
		p, err := regexp.Compile(expr)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}
		f.Exclude = append(f.Exclude, p)
	}

	return f, nil
}

// Apply returns the types that pass the filter, preserving order. Applying
// the same filter twice is a no-op on the second pass.
func (f Filter) Apply(types []*Type) []*Type {
	kept := make([]*Type, 0, len(types))
	for _, t := range types {
		if f.keep(t) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (f Filter) keep(t *Type) bool {
	if f.NameContains != "" && !strings.Contains(t.Name, f.NameContains) {
		return false
	}
	if t.Size < f.MinSize {
		return false
	}
	if len(f.Include) > 0 {
		matched := false
		for _, p := range f.Include {
			if p.MatchString(t.Name) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, p := range f.Exclude {
		if p.MatchString(t.Name) {
			return false
		}
	}
	return true
}
