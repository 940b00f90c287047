package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"lexegen/internal/codepoint"
	"lexegen/internal/diag"
	"lexegen/internal/regex"
	"lexegen/internal/valset"
)

// maxCount bounds the numbers of a {m,n} repetition.
const maxCount = 65535

// tokenInfo is the payload of the token returned by the last lex call.
type tokenInfo struct {
	loc   diag.Location
	start lexer.Position // where the token begins, for rewind
	text  string         // identifier, reference name or option list
	code  rune           // tChar
	min   int            // tBound
	max   int            // tBound
	set   valset.ValueSet
}

func (p *Parser) push(sc int) { p.scStack = append(p.scStack, sc) }

func (p *Parser) pop() { p.scStack = p.scStack[:len(p.scStack)-1] }

func (p *Parser) sc() int { return p.scStack[len(p.scStack)-1] }

// setState replaces the innermost lexical state.
func (p *Parser) setState(sc int) { p.scStack[len(p.scStack)-1] = sc }

func location(pos lexer.Position) diag.Location {
	return diag.Location{Line: pos.Line, Column: pos.Column}
}

// rewind puts the current token back, so the next lex call scans it again,
// possibly in another state.
func (p *Parser) rewind() { p.pos = p.tkn.start }

// skipLine moves the read position past the end of the current line unless
// tt already ended it.
func (p *Parser) skipLine(tt tokenType) {
	if tt == tNewLine || tt == tEOF {
		return
	}
	rest := p.text[p.pos.Offset:]
	n := strings.IndexByte(rest, '\n')
	if n < 0 {
		n = len(rest)
	} else {
		n++
	}
	p.pos.Advance(rest[:n])
}

// lex scans the next token in the current lexical state and fills p.tkn.
func (p *Parser) lex() tokenType {
	for {
		if p.fatal {
			p.tkn = tokenInfo{loc: location(p.pos), start: p.pos}
			return tEOF
		}
		table := &scanTables[p.sc()]
		var tok lexer.Token
		l, err := table.def.LexString(p.fileName, p.text[p.pos.Offset:])
		if err == nil {
			tok, err = l.Next()
		}
		if err != nil {
			p.tkn = tokenInfo{loc: location(p.pos), start: p.pos}
			p.logError().Print("invalid input").Emit()
			_, next := codepoint.FromUTF8(p.text, p.pos.Offset)
			if next == p.pos.Offset {
				next = len(p.text)
			}
			p.pos.Advance(p.text[p.pos.Offset:next])
			continue
		}

		start := p.pos.Add(tok.Pos)
		p.tkn = tokenInfo{loc: location(start), start: start}
		if tok.EOF() {
			p.pos = start
			return p.eof()
		}

		tt := table.types[tok.Type]
		end := start.Offset + len(tok.Value)
		switch tt {
		case tChar:
			code, next := codepoint.FromUTF8(p.text, start.Offset)
			if next == start.Offset {
				return p.truncated()
			}
			p.tkn.code, end = p.checkCode(code), next
		case tIdent:
			p.tkn.text = tok.Value
		case tOption:
			p.tkn.text = tok.Value
		case tDefRef:
			p.tkn.text = tok.Value[1 : len(tok.Value)-1]
		case tBound:
			p.scanBound(tok.Value[1 : len(tok.Value)-1])
		case tLBrace:
			p.logWarning().Print("'{' does not start a repetition bound or a definition reference, taken literally").Emit()
			tt, p.tkn.code = tChar, '{'
		case tClassName:
			name := tok.Value[2 : len(tok.Value)-2]
			set, ok := posixClass(name)
			if !ok {
				p.logError().Printf("unknown character class '%s'", name).Emit()
			}
			p.tkn.set = set
		case tEscHex:
			tt, p.tkn.code = tChar, p.scanHex(tok.Value[2:], 2)
		case tEscUnicode:
			tt, p.tkn.code = tChar, p.checkCode(p.scanHex(tok.Value[2:], 4))
		case tEscOctal:
			code := 0
			for i := 1; i < len(tok.Value); i++ {
				code = code<<3 | dig(tok.Value[i])
			}
			tt, p.tkn.code = tChar, rune(code)
		case tEscape:
			tt = tChar
			switch c := tok.Value[1]; c {
			case 'n':
				p.tkn.code = '\n'
			case 't':
				p.tkn.code = '\t'
			case 'r':
				p.tkn.code = '\r'
			case 'f':
				p.tkn.code = '\f'
			case 'v':
				p.tkn.code = '\v'
			case 'a':
				p.tkn.code = '\a'
			case 'e':
				p.tkn.code = 0x1B
			default:
				code, next := codepoint.FromUTF8(p.text, start.Offset+1)
				if next == start.Offset+1 {
					return p.truncated()
				}
				p.tkn.code, end = p.checkCode(code), next
			}
		case tEscEnd:
			p.logError().Print("incomplete escape sequence").Emit()
			tt, p.tkn.code = tChar, '\\'
		}
		p.pos = start
		p.pos.Advance(p.text[start.Offset:end])
		return tt
	}
}

// eof reports end of input inside a construct that needs a terminator.
func (p *Parser) eof() tokenType {
	switch p.sc() {
	case scClass:
		p.logError().Print("unexpected end of file in character class").Emit()
	case scString:
		p.logError().Print("unexpected end of file in string literal").Emit()
	}
	return tEOF
}

// truncated handles a multibyte sequence cut short by the end of input. The
// rest of the input is dropped.
func (p *Parser) truncated() tokenType {
	p.logWarning().Print("incomplete UTF-8 sequence at end of file").Emit()
	p.pos.Advance(p.text[p.pos.Offset:])
	p.tkn.start = p.pos
	return p.eof()
}

func (p *Parser) checkCode(code rune) rune {
	if code > codepoint.MaxValue {
		p.logWarning().Printf("code point 0x%X is out of range, replaced by U+FFFD", code).Emit()
		return 0xFFFD
	}
	return code
}

// scanHex converts the digits of a \x or \u escape. Anything other than
// exactly n hex digits is an error and yields 0.
func (p *Parser) scanHex(digits string, n int) rune {
	if len(digits) != n {
		p.logError().Printf("escape sequence needs %d hexadecimal digits", n).Emit()
		return 0
	}
	code := 0
	for i := 0; i < len(digits); i++ {
		if !isHex(digits[i]) {
			p.logError().Printf("invalid hexadecimal digit '%c'", digits[i]).Emit()
			return 0
		}
		code = code<<4 | hdig(digits[i])
	}
	return rune(code)
}

// scanBound fills min and max from the body of {m}, {m,} or {m,n}.
func (p *Parser) scanBound(body string) {
	lo, hi, comma := body, "", false
	if i := strings.IndexByte(body, ','); i >= 0 {
		lo, hi, comma = body[:i], body[i+1:], true
	}
	p.tkn.min = p.scanCount(lo)
	switch {
	case !comma:
		p.tkn.max = p.tkn.min
	case hi == "":
		p.tkn.max = regex.Unbounded
	default:
		p.tkn.max = p.scanCount(hi)
	}
}

func (p *Parser) scanCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + dig(s[i])
		if n > maxCount {
			p.logError().Printf("repetition count is greater than %d", maxCount).Emit()
			return maxCount
		}
	}
	return n
}

func dig(ch byte) int { return int(ch - '0') }

func hdig(ch byte) int {
	switch {
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10
	}
	return int(ch - '0')
}

func isHex(ch byte) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'f' || ch >= 'A' && ch <= 'F'
}

// posixClass returns the ASCII members of [:name:].
func posixClass(name string) (s valset.ValueSet, ok bool) {
	switch name {
	case "alpha":
		s.AddRange('A', 'Z'+1)
		s.AddRange('a', 'z'+1)
	case "digit":
		s.AddRange('0', '9'+1)
	case "alnum":
		s.AddRange('0', '9'+1)
		s.AddRange('A', 'Z'+1)
		s.AddRange('a', 'z'+1)
	case "upper":
		s.AddRange('A', 'Z'+1)
	case "lower":
		s.AddRange('a', 'z'+1)
	case "space":
		s = valset.Of(' ', '\t', '\n', '\v', '\f', '\r')
	case "blank":
		s = valset.Of(' ', '\t')
	case "xdigit":
		s.AddRange('0', '9'+1)
		s.AddRange('A', 'F'+1)
		s.AddRange('a', 'f'+1)
	case "punct":
		s.AddRange('!', '/'+1)
		s.AddRange(':', '@'+1)
		s.AddRange('[', '`'+1)
		s.AddRange('{', '~'+1)
	case "cntrl":
		s.AddRange(0, 0x20)
		s.Add(0x7F)
	case "print":
		s.AddRange(' ', '~'+1)
	case "graph":
		s.AddRange('!', '~'+1)
	default:
		return s, false
	}
	return s, true
}
