package sizes

import "fmt"

// Error types for specific parse failures. All of them are fatal: a report
// built from partially parsed output could silently misrepresent memory
// layout, so the parser never skips malformed data and continues.
type (
	// MalformedInputError indicates a line that matched a known marker but
	// carried a numeric attribute that could not be parsed.
	MalformedInputError struct {
		LineNo int    // 1-based line number in the input
		Line   string // the offending line, verbatim
		Field  string // which attribute failed: "size", "offset" or "alignment"
	}

	// StructuralError indicates an indentation depth that violates the
	// one-level-at-a-time nesting of print-type-size output.
	StructuralError struct {
		LineNo int
		Line   string
		Reason string
	}

	// EmptyInputError indicates that the input contained no print-type-size
	// lines at all, usually a misconfigured compiler invocation.
	EmptyInputError struct{}
)

func (e MalformedInputError) Error() string {
	return fmt.Sprintf("line %d: cannot parse %s in %q", e.LineNo, e.Field, e.Line)
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("line %d: %s in %q", e.LineNo, e.Reason, e.Line)
}

func (EmptyInputError) Error() string {
	return "no print-type-size lines found in input (did the compiler run with -Zprint-type-sizes?)"
}
