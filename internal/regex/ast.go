// Package regex holds the syntax tree of a rule's regular expression.
package regex

import (
	"fmt"
	"strings"

	"lexegen/internal/diag"
	"lexegen/internal/valset"
)

// Unbounded is the Max of a closure without upper bound.
const Unbounded = -1

// Node is one of *CharClass, *Concat, *Alternate, *Closure, *Group,
// *DefinitionRef or *Anchor. Every composite node owns its children.
type Node interface {
	fmt.Stringer
	node()
}

// CharClass matches one code point from Set.
type CharClass struct {
	Set valset.ValueSet
}

// Concat matches its children in sequence. With no children it matches the
// empty string.
type Concat struct {
	Children []Node
}

// Alternate matches any one of its children. Order is declaration order.
type Alternate struct {
	Children []Node
}

// Closure matches Child repeated between Min and Max times.
type Closure struct {
	Child Node
	Min   int
	Max   int // Unbounded for no limit
}

// Group marks a parenthesized sub-expression.
type Group struct {
	Child Node
}

// DefinitionRef is a {name} reference. The parser replaces it by a copy of
// the named definition before a pattern is finished.
type DefinitionRef struct {
	Name string
	Loc  diag.Location
}

type AnchorKind int

const (
	LineStart AnchorKind = iota // ^
	LineEnd                     // $
)

func (k AnchorKind) String() string {
	if k == LineStart {
		return "^"
	}
	return "$"
}

// Anchor is a zero-width assertion.
type Anchor struct {
	Kind AnchorKind
}

func (*CharClass) node()     {}
func (*Concat) node()        {}
func (*Alternate) node()     {}
func (*Closure) node()       {}
func (*Group) node()         {}
func (*DefinitionRef) node() {}
func (*Anchor) node()        {}

// Char returns a class of the single code point r.
func Char(r rune) *CharClass { return &CharClass{Set: valset.Of(r)} }

// Empty returns a node matching the empty string.
func Empty() *Concat { return &Concat{} }

func (n *CharClass) String() string { return "CharClass" + n.Set.String() }

func (n *Concat) String() string { return "Concat(" + join(n.Children) + ")" }

func (n *Alternate) String() string { return "Alternate(" + join(n.Children) + ")" }

func (n *Closure) String() string {
	max := "inf"
	if n.Max != Unbounded {
		max = fmt.Sprint(n.Max)
	}
	return fmt.Sprintf("Closure(%v, %d, %s)", n.Child, n.Min, max)
}

func (n *Group) String() string { return fmt.Sprintf("Group(%v)", n.Child) }

func (n *DefinitionRef) String() string { return "DefinitionRef(" + n.Name + ")" }

func (n *Anchor) String() string { return "Anchor(" + n.Kind.String() + ")" }

func join(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
