package parser

import (
	"lexegen/internal/diag"
	"lexegen/internal/regex"
	"lexegen/internal/valset"
)

// Every function below takes the current token and returns the first token
// it did not consume, so callers decide what the terminator means.

func isTerminator(tt tokenType) bool {
	switch tt {
	case tOr, tRParen, tBlank, tNewLine, tEOF:
		return true
	}
	return false
}

func isPostfix(tt tokenType) bool {
	switch tt {
	case tStar, tPlus, tQuest, tBound:
		return true
	}
	return false
}

// anchorsAllowed reports whether ^ and $ may be anchors here: outside any
// group and outside definition bodies, which can be expanded anywhere.
func (p *Parser) anchorsAllowed() bool { return p.depth == 0 && !p.inDef }

// parseRegex parses an alternation starting with token tt.
func (p *Parser) parseRegex(tt tokenType) (regex.Node, tokenType) {
	var alts []regex.Node
	for {
		var n regex.Node
		n, tt = p.parseConcat(tt)
		alts = append(alts, n)
		if tt != tOr {
			break
		}
		tt = p.lex()
	}
	if len(alts) == 1 {
		return alts[0], tt
	}
	return &regex.Alternate{Children: alts}, tt
}

func (p *Parser) parseConcat(tt tokenType) (regex.Node, tokenType) {
	var items []regex.Node
	if tt == tCaret && p.anchorsAllowed() {
		items = append(items, &regex.Anchor{Kind: regex.LineStart})
		tt = p.lex()
	}
	for !isTerminator(tt) {
		var n regex.Node
		if isPostfix(tt) {
			if len(items) > 0 {
				_, isAnchor := items[len(items)-1].(*regex.Anchor)
				if isAnchor {
					p.logSyntaxError(tt)
					tt = p.lex()
					continue
				}
			}
			p.logError().Printf("%s without operand", tt).Emit()
			tt = p.lex()
			continue
		}
		n, tt = p.parsePrimary(tt)
		if n == nil {
			continue
		}
		n, tt = p.parsePostfix(n, tt)
		// quoted strings are spliced in unless a closure made them one unit
		if c, ok := n.(*regex.Concat); ok {
			items = append(items, c.Children...)
		} else {
			items = append(items, n)
		}
	}
	if len(items) == 1 {
		return items[0], tt
	}
	return &regex.Concat{Children: items}, tt
}

// parsePostfix applies the closures following n. A closure directly on a
// closure or an anchor is dropped with an error.
func (p *Parser) parsePostfix(n regex.Node, tt tokenType) (regex.Node, tokenType) {
	for isPostfix(tt) {
		min, max := 0, regex.Unbounded
		switch tt {
		case tPlus:
			min = 1
		case tQuest:
			max = 1
		case tBound:
			min, max = p.tkn.min, p.tkn.max
		}
		switch n.(type) {
		case *regex.Closure, *regex.Anchor:
			p.logSyntaxError(tt)
		default:
			if max != regex.Unbounded && min > max {
				p.logError().Printf("invalid repetition bounds {%d,%d}", min, max).Emit()
				break
			}
			n = &regex.Closure{Child: n, Min: min, Max: max}
		}
		tt = p.lex()
	}
	return n, tt
}

func (p *Parser) parsePrimary(tt tokenType) (regex.Node, tokenType) {
	switch tt {
	case tChar:
		return regex.Char(p.tkn.code), p.lex()
	case tCaret:
		return regex.Char('^'), p.lex()
	case tDot:
		return &regex.CharClass{Set: valset.Of('\n').Complement()}, p.lex()
	case tDollar:
		next := p.lex()
		if p.anchorsAllowed() && isTerminator(next) {
			return &regex.Anchor{Kind: regex.LineEnd}, next
		}
		return regex.Char('$'), next
	case tDefRef:
		return &regex.DefinitionRef{Name: p.tkn.text, Loc: p.tkn.loc}, p.lex()
	case tLParen:
		p.depth++
		inner, tt := p.parseRegex(p.lex())
		p.depth--
		if tt != tRParen {
			p.logError().Print("missing ')'").Emit()
			return &regex.Group{Child: inner}, tt
		}
		return &regex.Group{Child: inner}, p.lex()
	case tClassOpen, tClassNegOpen:
		return p.parseClass(tt == tClassNegOpen)
	case tQuote:
		return p.parseString()
	}
	p.logSyntaxError(tt)
	return nil, p.lex()
}

// parseClass reads the members of [...] or [^...]. Negation is applied when
// the class is closed.
func (p *Parser) parseClass(negate bool) (regex.Node, tokenType) {
	p.push(scClass)
	var set valset.ValueSet
	done := func(tt tokenType) (regex.Node, tokenType) {
		p.pop()
		if negate {
			set = set.Complement()
		}
		if tt == tClassClose {
			tt = p.lex()
		}
		return &regex.CharClass{Set: set}, tt
	}

	tt := p.lex()
	if tt == tClassClose {
		// ']' right after the opening bracket is a member
		tt, p.tkn.code = tChar, ']'
	}
	for {
		switch tt {
		case tClassClose:
			return done(tt)
		case tNewLine:
			p.logError().Print("unterminated character class").Emit()
			return done(tt)
		case tEOF:
			return done(tt)
		case tClassName:
			set.AddSet(p.tkn.set)
			tt = p.lex()
		case tDash:
			set.Add('-')
			tt = p.lex()
		case tChar:
			lo, loc := p.tkn.code, p.tkn.loc
			if tt = p.lex(); tt != tDash {
				set.Add(lo)
				continue
			}
			if tt = p.lex(); tt != tChar {
				// trailing '-' is a member
				set.Add(lo)
				set.Add('-')
				continue
			}
			hi := p.tkn.code
			if lo > hi {
				p.logAt(diag.Error, loc).Printf("invalid range %q-%q", lo, hi).Emit()
			} else {
				set.AddRange(lo, hi+1)
			}
			tt = p.lex()
		default:
			p.logSyntaxError(tt)
			tt = p.lex()
		}
	}
}

// parseString reads a quoted string. A single character yields a CharClass,
// anything else a Concat.
func (p *Parser) parseString() (regex.Node, tokenType) {
	p.push(scString)
	var items []regex.Node
	tt := p.lex()
	for tt == tChar {
		items = append(items, regex.Char(p.tkn.code))
		tt = p.lex()
	}
	p.pop()
	switch tt {
	case tQuote:
		tt = p.lex()
	case tNewLine:
		p.logError().Print("unterminated string literal").Emit()
	}
	if len(items) == 1 {
		return items[0], tt
	}
	return &regex.Concat{Children: items}, tt
}
