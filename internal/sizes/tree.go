package sizes

import "io"

// Parse reads print-type-size diagnostic text and assembles the forest of
// type-layout trees, in input order.
func Parse(r io.Reader) ([]*Type, error) {
	lines, err := Tokenize(r)
	if err != nil {
		return nil, err
	}
	return Assemble(lines)
}

// openNode is one entry of the assembler stack: a node whose subtree is still
// accepting children, at the depth it was encountered.
type openNode struct {
	depth int
	node  Node
}

// Assemble turns the flat, depth-annotated line stream into a forest of Type
// trees in a single forward pass. Indentation depth is the only nesting
// signal: a line one level deeper than the top of the stack becomes its
// child, a line at the same or shallower depth unwinds the stack to the
// matching parent first, and a type header resets the stack entirely. There
// is no closing marker in the input; end of input closes every open node.
func Assemble(lines []Line) ([]*Type, error) {
	var forest []*Type
	var stack []openNode

	for _, line := range lines {
		if line.Kind == KindType {
			t := &Type{Name: line.Name, Size: line.Size}
			if line.Alignment != nil {
				t.Alignment = *line.Alignment
			}
			forest = append(forest, t)
			stack = append(stack[:0], openNode{depth: 0, node: t})
			continue
		}

		if len(stack) == 0 {
			return nil, StructuralError{
				LineNo: line.Number,
				Line:   line.Text,
				Reason: "nested line before any type header",
			}
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= line.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 || stack[len(stack)-1].depth != line.Depth-1 {
			// The depth jumped past at least one level that was never
			// opened. Attaching the node anyway would silently corrupt the
			// report, so fail instead.
			return nil, StructuralError{
				LineNo: line.Number,
				Line:   line.Text,
				Reason: "indentation depth jumps by more than one level",
			}
		}

		node := buildNode(line)
		parent := &stack[len(stack)-1]
		if err := appendChild(parent.node, node, line); err != nil {
			return nil, err
		}
		stack = append(stack, openNode{depth: line.Depth, node: node})
	}

	if len(forest) == 0 {
		return nil, EmptyInputError{}
	}

	return forest, nil
}

// buildNode constructs the entity for one classified line. The kind is fixed
// at creation and never changes.
func buildNode(line Line) Node {
	switch line.Kind {
	case KindVariant:
		return &Variant{Name: line.Name, Size: line.Size}
	case KindField:
		return &Field{
			Name:      line.Name,
			Size:      line.Size,
			Offset:    line.Offset,
			Alignment: line.Alignment,
		}
	case KindPadding:
		return &Padding{Size: line.Size}
	case KindEndPadding:
		return &EndPadding{Size: line.Size}
	default:
		return &Discriminant{Size: line.Size}
	}
}

// appendChild attaches child to parent, preserving input order. Synthetic
// leaf kinds own no children; a line nested under one means the indentation
// bookkeeping went wrong.
func appendChild(parent, child Node, line Line) error {
	switch p := parent.(type) {
	case *Type:
		p.Children = append(p.Children, child)
	case *Variant:
		p.Children = append(p.Children, child)
	case *Field:
		p.Children = append(p.Children, child)
	default:
		return StructuralError{
			LineNo: line.Number,
			Line:   line.Text,
			Reason: "line nested under a node that cannot own children",
		}
	}
	return nil
}
