package regex

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/go-cmp/cmp"

	"lexegen/internal/diag"
	"lexegen/internal/valset"
)

func class(lo, hi rune) *CharClass { return &CharClass{Set: valset.FromRange(lo, hi+1)} }

// [a-z][0-9]*|x?
func sample() Node {
	return &Alternate{Children: []Node{
		&Concat{Children: []Node{
			class('a', 'z'),
			&Closure{Child: class('0', '9'), Min: 0, Max: Unbounded},
		}},
		&Closure{Child: Char('x'), Min: 0, Max: 1},
	}}
}

func TestString(t *testing.T) {
	assert.Equal(t,
		"Alternate(Concat(CharClass[a-z], Closure(CharClass[0-9], 0, inf)), Closure(CharClass[x], 0, 1))",
		sample().String())
	assert.Equal(t, "Group(Concat())", (&Group{Child: Empty()}).String())
	assert.Equal(t, "Anchor(^)", (&Anchor{Kind: LineStart}).String())
	assert.Equal(t, "DefinitionRef(digit)", (&DefinitionRef{Name: "digit"}).String())
}

func TestCloneIsDeep(t *testing.T) {
	orig := sample()
	cp := Clone(orig)
	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	// mutate the copy, the original must not change
	alt := cp.(*Alternate)
	alt.Children[0].(*Concat).Children[0].(*CharClass).Set.Add('Z')
	alt.Children[1].(*Closure).Max = 7
	alt.Children = append(alt.Children, Char('q'))

	assert.Equal(t,
		"Alternate(Concat(CharClass[a-z], Closure(CharClass[0-9], 0, inf)), Closure(CharClass[x], 0, 1))",
		orig.String())
}

func TestSubstitute(t *testing.T) {
	def := class('0', '9')
	tree := &Concat{Children: []Node{
		&Closure{Child: &DefinitionRef{Name: "digit", Loc: diag.Location{Line: 1, Column: 2}}, Min: 1, Max: Unbounded},
		&Group{Child: &DefinitionRef{Name: "digit"}},
	}}
	assert.True(t, HasRefs(tree))

	var seen []string
	out := Substitute(tree, func(ref *DefinitionRef) Node {
		seen = append(seen, ref.Name)
		return Clone(def)
	})
	assert.Equal(t, []string{"digit", "digit"}, seen)
	assert.False(t, HasRefs(out))

	want := &Concat{Children: []Node{
		&Closure{Child: class('0', '9'), Min: 1, Max: Unbounded},
		&Group{Child: class('0', '9')},
	}}
	if diff := cmp.Diff(Node(want), out); diff != "" {
		t.Fatalf("unexpected tree (-want +got):\n%s", diff)
	}

	// substituted copies are not shared
	c := out.(*Concat)
	assert.False(t, c.Children[0].(*Closure).Child == c.Children[1].(*Group).Child)
}

func TestSubstituteRoot(t *testing.T) {
	out := Substitute(&DefinitionRef{Name: "x"}, func(*DefinitionRef) Node { return Char('x') })
	assert.Equal(t, "CharClass[x]", out.String())
}

func TestWalkOrder(t *testing.T) {
	var kinds []string
	Walk(sample(), func(n Node) bool {
		kinds = append(kinds, label(n))
		return true
	})
	assert.Equal(t, []string{"|", "concat", "[a-z]", "*", "[0-9]", "?", "[x]"}, kinds)
}

func TestFirstSet(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		first    valset.ValueSet
		nullable bool
	}{
		{"class", class('a', 'c'), valset.FromRange('a', 'd'), false},
		{"empty", Empty(), valset.ValueSet{}, true},
		{"concat stops at first non-nullable",
			&Concat{Children: []Node{&Closure{Child: Char('a'), Max: 1}, Char('b'), Char('c')}},
			valset.Of('a', 'b'), false},
		{"alternation",
			sample(),
			valset.FromRange('a', 'z'+1).Union(valset.Of('x')), true},
		{"plus", &Closure{Child: Char('a'), Min: 1, Max: Unbounded}, valset.Of('a'), false},
		{"zero repetitions", &Closure{Child: Char('a'), Min: 0, Max: 0}, valset.ValueSet{}, true},
		{"anchor then char", &Concat{Children: []Node{&Anchor{}, Char('a')}}, valset.Of('a'), false},
		{"group", &Group{Child: Char('g')}, valset.Of('g'), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			first, nullable := FirstSet(test.node)
			assert.True(t, test.first.Equal(first), "first: want %v got %v", test.first, first)
			assert.Equal(t, test.nullable, nullable)
		})
	}
}

func TestExportDOT(t *testing.T) {
	var b strings.Builder
	ExportDOT(&b, &Concat{Children: []Node{
		&Anchor{Kind: LineStart},
		&Closure{Child: Char('a'), Min: 2, Max: 3},
	}})
	out := b.String()
	assert.HasPrefix(t, out, "digraph G {\n")
	assert.HasSuffix(t, out, "}\n")
	assert.Contains(t, out, `n0 [shape=box, label="concat"];`)
	assert.Contains(t, out, `n1 [shape=diamond, label="^"];`)
	assert.Contains(t, out, `n2 [shape=box, label="{2,3}"];`)
	assert.Contains(t, out, `n3 [shape=ellipse, label="[a]"];`)
	assert.Contains(t, out, `n0 -> n1 [label="0"];`)
	assert.Contains(t, out, `n0 -> n2 [label="1"];`)
	assert.Contains(t, out, "n2 -> n3;")
}
