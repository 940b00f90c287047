package codepoint

import (
	"testing"
	"unicode/utf8"

	"github.com/alecthomas/assert/v2"
)

func TestFromUTF8Valid(t *testing.T) {
	for _, r := range []rune{0, 'a', 0x7F, 0x80, 0xE9, 0x7FF, 0x800, 0x20AC, 0xFFFF, 0x10000, 0x1F600, MaxValue} {
		buf := utf8.AppendRune(nil, r)
		code, next := FromUTF8(buf, 0)
		assert.Equal(t, r, code, "value of %U", r)
		assert.Equal(t, len(buf), next, "length of %U", r)
		assert.Equal(t, len(buf), SeqLen(buf[0]))
	}
}

func TestFromUTF8String(t *testing.T) {
	s := "aé€😀"
	var got []rune
	for pos := 0; pos < len(s); {
		code, next := FromUTF8(s, pos)
		assert.True(t, next > pos)
		got = append(got, code)
		pos = next
	}
	assert.Equal(t, []rune("aé€😀"), got)
}

func TestFromUTF8Truncated(t *testing.T) {
	tests := []string{
		"\xC3",
		"\xE2\x82",
		"\xF0\x9F\x98",
		"ab\xF0",
	}
	for _, s := range tests {
		pos := len(s) - 1
		for pos > 0 && s[pos]&0xC0 == 0x80 {
			pos--
		}
		code, next := FromUTF8(s, pos)
		assert.Equal(t, pos, next, "input %q", s)
		assert.Equal(t, rune(0), code)
	}
}

func TestFromUTF8EndOfInput(t *testing.T) {
	_, next := FromUTF8("", 0)
	assert.Equal(t, 0, next)
	_, next = FromUTF8("a", 1)
	assert.Equal(t, 1, next)
}

func TestFromUTF8Malformed(t *testing.T) {
	// stray continuation byte is taken as is
	code, next := FromUTF8("\x80a", 0)
	assert.Equal(t, rune(0x80), code)
	assert.Equal(t, 1, next)

	// lead byte followed by a non-continuation byte still consumes the sequence
	code, next = FromUTF8("\xC3a", 0)
	assert.Equal(t, rune(0x3<<6|'a'&0x3F), code)
	assert.Equal(t, 2, next)

	// 0xF8..0xFF have no continuation bytes
	code, next = FromUTF8("\xFF", 0)
	assert.Equal(t, rune(0xFF), code)
	assert.Equal(t, 1, next)
}
