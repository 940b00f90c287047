package regex

import (
	"fmt"
	"io"
	"strings"
)

// ExportDOT prints a Graphviz representation of the tree rooted at n.
func ExportDOT(w io.Writer, n Node) {
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, "    node [shape=box];")

	ids := map[Node]int{}
	var dfs func(Node) int
	dfs = func(n Node) int {
		id := len(ids)
		ids[n] = id
		shape := "box"
		switch n.(type) {
		case *CharClass:
			shape = "ellipse"
		case *Anchor:
			shape = "diamond"
		}
		fmt.Fprintf(w, "    n%d [shape=%s, label=%q];\n", id, shape, label(n))

		var children []Node
		switch t := n.(type) {
		case *Concat:
			children = t.Children
		case *Alternate:
			children = t.Children
		case *Closure:
			children = []Node{t.Child}
		case *Group:
			children = []Node{t.Child}
		}
		for i, c := range children {
			cid := dfs(c)
			if len(children) > 1 {
				fmt.Fprintf(w, "    n%d -> n%d [label=\"%d\"];\n", id, cid, i)
			} else {
				fmt.Fprintf(w, "    n%d -> n%d;\n", id, cid)
			}
		}
		return id
	}
	if n != nil {
		dfs(n)
	}

	fmt.Fprintln(w, "}")
}

func label(n Node) string {
	switch t := n.(type) {
	case *CharClass:
		return t.Set.String()
	case *Concat:
		if len(t.Children) == 0 {
			return "ε"
		}
		return "concat"
	case *Alternate:
		return "|"
	case *Closure:
		switch {
		case t.Min == 0 && t.Max == Unbounded:
			return "*"
		case t.Min == 1 && t.Max == Unbounded:
			return "+"
		case t.Min == 0 && t.Max == 1:
			return "?"
		case t.Max == Unbounded:
			return fmt.Sprintf("{%d,}", t.Min)
		case t.Min == t.Max:
			return fmt.Sprintf("{%d}", t.Min)
		}
		return fmt.Sprintf("{%d,%d}", t.Min, t.Max)
	case *Group:
		return "( )"
	case *DefinitionRef:
		return "{" + t.Name + "}"
	case *Anchor:
		return t.Kind.String()
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*regex.")
}
