package output

import (
	"fmt"
	"strings"

	"github.com/ddddddO/gtree"

	"github.com/jedrzejboczar/rust-type-sizes/internal/sizes"
)

// printTree renders each top-level type as an ASCII tree.
func (p *Printer) printTree(types []*sizes.Type) error {
	for _, t := range types {
		root := gtree.NewRoot(nodeLabel(t))
		addBranches(root, t.Children)
		if err := gtree.OutputProgrammably(p.w, root); err != nil {
			return err
		}
	}
	return nil
}

func addBranches(parent *gtree.Node, children []sizes.Node) {
	for _, child := range children {
		branch := parent.Add(nodeLabel(child))
		addBranches(branch, sizes.NodeChildren(child))
	}
}

func nodeLabel(n sizes.Node) string {
	var b strings.Builder

	switch v := n.(type) {
	case *sizes.Type:
		fmt.Fprintf(&b, "%s (%d bytes, align %d)", v.Name, v.Size, v.Alignment)
	case *sizes.Field:
		fmt.Fprintf(&b, "%s: %d bytes", v.Name, v.Size)
		if v.Offset != nil {
			fmt.Fprintf(&b, " @ %d", *v.Offset)
		}
	case *sizes.Variant:
		name := v.Name
		if name == "" {
			name = "<anonymous>"
		}
		fmt.Fprintf(&b, "variant %s: %d bytes", name, v.Size)
	default:
		fmt.Fprintf(&b, "%s: %d bytes", n.NodeKind(), sizes.NodeSize(n))
	}

	return b.String()
}
