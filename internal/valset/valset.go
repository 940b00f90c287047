// Package valset implements sets of code points (or any small non-negative
// integers) stored as ordered, maximally merged ranges.
package valset

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"lexegen/internal/codepoint"
)

// MaxValue is the largest value a set can hold.
const MaxValue = codepoint.MaxValue

const domainEnd = MaxValue + 1

// Range is the half-open interval [Lo, Hi).
type Range struct {
	Lo, Hi rune
}

// ValueSet is a set of values. The zero value is the empty set.
//
// Ranges are kept sorted, disjoint and non-adjacent.
type ValueSet struct {
	ranges []Range
}

// Of returns the set holding exactly values.
func Of(values ...rune) ValueSet {
	var s ValueSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// FromRange returns the set [lo, hi).
func FromRange(lo, hi rune) ValueSet {
	var s ValueSet
	s.AddRange(lo, hi)
	return s
}

// Full returns the set of all values in [0, MaxValue].
func Full() ValueSet {
	return ValueSet{ranges: []Range{{0, domainEnd}}}
}

func cmpHiLo(r, target Range) int {
	switch {
	case r.Hi < target.Lo:
		return -1
	case r.Hi > target.Lo:
		return 1
	}
	return 0
}

// Add inserts v.
func (s *ValueSet) Add(v rune) { s.AddRange(v, v+1) }

// AddRange inserts every value of [lo, hi). Values outside the domain are
// dropped.
func (s *ValueSet) AddRange(lo, hi rune) {
	if lo < 0 {
		lo = 0
	}
	if hi > domainEnd {
		hi = domainEnd
	}
	if lo >= hi {
		return
	}
	// first range that overlaps or touches [lo, hi)
	i, _ := slices.BinarySearchFunc(s.ranges, Range{Lo: lo}, cmpHiLo)
	j := i
	for j < len(s.ranges) && s.ranges[j].Lo <= hi {
		if s.ranges[j].Lo < lo {
			lo = s.ranges[j].Lo
		}
		if s.ranges[j].Hi > hi {
			hi = s.ranges[j].Hi
		}
		j++
	}
	if i == j {
		s.ranges = slices.Insert(s.ranges, i, Range{lo, hi})
		return
	}
	s.ranges[i] = Range{lo, hi}
	s.ranges = slices.Delete(s.ranges, i+1, j)
}

// AddSet inserts every value of o.
func (s *ValueSet) AddSet(o ValueSet) {
	for _, r := range o.ranges {
		s.AddRange(r.Lo, r.Hi)
	}
}

// Union returns s ∪ o.
func (s ValueSet) Union(o ValueSet) ValueSet {
	out := s.Clone()
	out.AddSet(o)
	return out
}

// Complement returns the values of [0, MaxValue] not in s.
func (s ValueSet) Complement() ValueSet {
	var out []Range
	prev := rune(0)
	for _, r := range s.ranges {
		if r.Lo > prev {
			out = append(out, Range{prev, r.Lo})
		}
		prev = r.Hi
	}
	if prev < domainEnd {
		out = append(out, Range{prev, domainEnd})
	}
	return ValueSet{ranges: out}
}

// Contains reports whether v is in s.
func (s ValueSet) Contains(v rune) bool {
	i, _ := slices.BinarySearchFunc(s.ranges, Range{Lo: v + 1}, cmpHiLo)
	return i < len(s.ranges) && s.ranges[i].Lo <= v && v < s.ranges[i].Hi
}

func (s ValueSet) Empty() bool { return len(s.ranges) == 0 }

// Len returns the number of values in s.
func (s ValueSet) Len() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi - r.Lo)
	}
	return n
}

// Ranges returns a copy of the stored ranges.
func (s ValueSet) Ranges() []Range { return slices.Clone(s.ranges) }

// Values lists every value in ascending order. Meant for small sets such as
// start condition indices.
func (s ValueSet) Values() []rune {
	out := make([]rune, 0, s.Len())
	for _, r := range s.ranges {
		for v := r.Lo; v < r.Hi; v++ {
			out = append(out, v)
		}
	}
	return out
}

func (s ValueSet) Equal(o ValueSet) bool { return slices.Equal(s.ranges, o.ranges) }

func (s ValueSet) Clone() ValueSet { return ValueSet{ranges: slices.Clone(s.ranges)} }

// String renders s in character class notation, e.g. [0-9A-Z_a-z].
func (s ValueSet) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range s.ranges {
		writeValue(&b, r.Lo)
		switch r.Hi - r.Lo {
		case 1:
		case 2:
			writeValue(&b, r.Lo+1)
		default:
			b.WriteByte('-')
			writeValue(&b, r.Hi-1)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeValue(b *strings.Builder, v rune) {
	switch {
	case v == '\n':
		b.WriteString(`\n`)
	case v == '\t':
		b.WriteString(`\t`)
	case v == '\r':
		b.WriteString(`\r`)
	case strings.ContainsRune(`\[]-^`, v):
		b.WriteByte('\\')
		b.WriteRune(v)
	case v >= ' ' && v < 0x7F:
		b.WriteRune(v)
	default:
		fmt.Fprintf(b, `\x{%X}`, v)
	}
}
