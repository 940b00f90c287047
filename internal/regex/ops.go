package regex

import "lexegen/internal/valset"

// Clone returns a deep copy of n. The copy shares nothing with n.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *CharClass:
		return &CharClass{Set: n.Set.Clone()}
	case *Concat:
		return &Concat{Children: cloneAll(n.Children)}
	case *Alternate:
		return &Alternate{Children: cloneAll(n.Children)}
	case *Closure:
		return &Closure{Child: Clone(n.Child), Min: n.Min, Max: n.Max}
	case *Group:
		return &Group{Child: Clone(n.Child)}
	case *DefinitionRef:
		c := *n
		return &c
	case *Anchor:
		c := *n
		return &c
	}
	panic("regex: unknown node type")
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Clone(n)
	}
	return out
}

// Substitute replaces every DefinitionRef in n by resolve(ref) and returns
// the new root. n is modified in place.
func Substitute(n Node, resolve func(ref *DefinitionRef) Node) Node {
	switch n := n.(type) {
	case *DefinitionRef:
		return resolve(n)
	case *Concat:
		for i, c := range n.Children {
			n.Children[i] = Substitute(c, resolve)
		}
	case *Alternate:
		for i, c := range n.Children {
			n.Children[i] = Substitute(c, resolve)
		}
	case *Closure:
		n.Child = Substitute(n.Child, resolve)
	case *Group:
		n.Child = Substitute(n.Child, resolve)
	}
	return n
}

// Walk calls fn for n and its descendants in pre-order. Children of a node
// are skipped when fn returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch n := n.(type) {
	case *Concat:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Alternate:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Closure:
		Walk(n.Child, fn)
	case *Group:
		Walk(n.Child, fn)
	}
}

// HasRefs reports whether n still contains a DefinitionRef.
func HasRefs(n Node) bool {
	found := false
	Walk(n, func(n Node) bool {
		if _, ok := n.(*DefinitionRef); ok {
			found = true
		}
		return !found
	})
	return found
}

// FirstSet returns the code points a match of n can start with, and whether
// n can match the empty string.
func FirstSet(n Node) (first valset.ValueSet, nullable bool) {
	switch n := n.(type) {
	case *CharClass:
		return n.Set.Clone(), false
	case *Concat:
		for _, c := range n.Children {
			f, null := FirstSet(c)
			first.AddSet(f)
			if !null {
				return first, false
			}
		}
		return first, true
	case *Alternate:
		for _, c := range n.Children {
			f, null := FirstSet(c)
			first.AddSet(f)
			nullable = nullable || null
		}
		return first, nullable
	case *Closure:
		if n.Max == 0 {
			return first, true
		}
		first, nullable = FirstSet(n.Child)
		return first, nullable || n.Min == 0
	case *Group:
		return FirstSet(n.Child)
	case *Anchor:
		return first, true
	}
	return first, false
}
