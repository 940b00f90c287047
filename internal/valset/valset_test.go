package valset

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func checkInvariant(t *testing.T, s ValueSet) {
	t.Helper()
	for i, r := range s.ranges {
		assert.True(t, r.Lo < r.Hi, "empty range %v in %v", r, s)
		assert.True(t, r.Lo >= 0 && r.Hi <= domainEnd, "range %v out of domain", r)
		if i > 0 {
			assert.True(t, s.ranges[i-1].Hi < r.Lo, "ranges %v and %v overlap or touch", s.ranges[i-1], r)
		}
	}
}

func TestAddMerges(t *testing.T) {
	var s ValueSet
	s.Add('c')
	s.Add('a')
	s.Add('x')
	s.Add('b')
	checkInvariant(t, s)
	assert.Equal(t, []Range{{'a', 'd'}, {'x', 'y'}}, s.Ranges())

	s.AddRange('d', 'x')
	checkInvariant(t, s)
	assert.Equal(t, []Range{{'a', 'y'}}, s.Ranges())
}

func TestAddRangeSpanning(t *testing.T) {
	s := Of('a', 'c', 'e', 'g', 'z')
	s.AddRange('b', 'g')
	checkInvariant(t, s)
	assert.Equal(t, []Range{{'a', 'h'}, {'z', 'z' + 1}}, s.Ranges())

	s.AddRange('0', '0')
	assert.Equal(t, 2, len(s.Ranges()))
	s.AddRange(-5, 2)
	s.AddRange(MaxValue, MaxValue+10)
	checkInvariant(t, s)
	assert.True(t, s.Contains(0) && s.Contains(1) && !s.Contains(2))
	assert.True(t, s.Contains(MaxValue))
}

func TestUnionCommutes(t *testing.T) {
	sets := []ValueSet{
		Of('a', 'b', 'c'),
		FromRange('0', '9'+1),
		Of('x', '_'),
		FromRange('b', 'q'),
		{},
		Full(),
	}
	for _, a := range sets {
		for _, b := range sets {
			ab := a.Union(b)
			ba := b.Union(a)
			checkInvariant(t, ab)
			assert.True(t, ab.Equal(ba), "%v ∪ %v: %v != %v", a, b, ab, ba)
		}
	}
}

func TestUnionDoesNotAlias(t *testing.T) {
	a := Of('a')
	b := a.Union(Of('z'))
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestComplement(t *testing.T) {
	s := Of('a', 'b', 'c', 'x')
	c := s.Complement()
	checkInvariant(t, c)
	assert.False(t, c.Contains('a'))
	assert.True(t, c.Contains('d'))
	assert.True(t, c.Contains(0))
	assert.True(t, c.Contains(MaxValue))
	assert.Equal(t, domainEnd-4, c.Len())
	assert.True(t, s.Equal(c.Complement()))

	assert.True(t, ValueSet{}.Complement().Equal(Full()))
	assert.True(t, Full().Complement().Empty())
}

func TestContains(t *testing.T) {
	s := Of('a', 'b', 'c', 'x')
	for _, v := range "abcx" {
		assert.True(t, s.Contains(v), "%q", v)
	}
	for _, v := range "`dwyz" {
		assert.False(t, s.Contains(v), "%q", v)
	}
	assert.False(t, ValueSet{}.Contains('a'))
}

func TestValues(t *testing.T) {
	assert.Equal(t, []rune{0, 2, 3}, Of(3, 0, 2).Values())
	assert.Equal(t, []rune{}, ValueSet{}.Values())
}

func TestString(t *testing.T) {
	tests := []struct {
		set  ValueSet
		want string
	}{
		{Of('a', 'b', 'c', 'x'), "[a-cx]"},
		{Of('a', 'b'), "[ab]"},
		{FromRange('0', '9'+1).Union(FromRange('A', 'Z'+1)).Union(Of('_')), "[0-9A-Z_]"},
		{Of('\n', '-', ']'), `[\n\-\]]`},
		{Of(0x20AC), `[\x{20AC}]`},
		{ValueSet{}, "[]"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.set.String())
	}
}
