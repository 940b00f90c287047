// Package codepoint decodes Unicode scalar values from UTF-8 text.
package codepoint

// MaxValue is the largest Unicode scalar value.
const MaxValue = 0x10FFFF

// continuation byte count, indexed by bits 3..5 of a 11xxxxxx leading byte
var contCount = [8]int{1, 1, 1, 1, 2, 2, 3, 0}

var leadMask = [4]rune{0xFF, 0x1F, 0xF, 0x7}

// FromUTF8 decodes one scalar value starting at in[pos].
//
// It returns the value and the position right after its encoding. If the
// sequence is cut short by the end of in, next == pos and code is zero: the
// caller must treat it as end of input. Overlong forms and surrogates are not
// rejected; malformed bytes yield a best-effort value.
func FromUTF8[T ~string | ~[]byte](in T, pos int) (code rune, next int) {
	if pos >= len(in) {
		return 0, pos
	}
	code = rune(in[pos])
	if code&0xC0 != 0xC0 {
		return code, pos + 1
	}
	count := contCount[(code>>3)&7]
	if len(in)-pos <= count {
		return 0, pos
	}
	code &= leadMask[count]
	for i := 1; i <= count; i++ {
		code = code<<6 | rune(in[pos+i]&0x3F)
	}
	return code, pos + count + 1
}

// SeqLen returns the number of bytes FromUTF8 expects for a sequence that
// starts with lead.
func SeqLen(lead byte) int {
	if lead&0xC0 != 0xC0 {
		return 1
	}
	return contCount[(lead>>3)&7] + 1
}
