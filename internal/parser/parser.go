// Package parser reads a lexer specification: options, start conditions,
// named definitions and rules. Each rule becomes a Pattern holding a regex
// syntax tree with every definition reference expanded.
package parser

import (
	"io"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"lexegen/internal/diag"
	"lexegen/internal/regex"
	"lexegen/internal/valset"
)

// InitialCondition is the start condition every specification declares
// implicitly, at index 0.
const InitialCondition = "initial"

var (
	ErrNoPattern     = errors.New("no such pattern")
	ErrTreeExtracted = errors.New("pattern tree already extracted")
)

// Pattern is one rule of the specification.
type Pattern struct {
	ID   string          // may be empty
	SC   valset.ValueSet // indices into StartConditions
	Tree regex.Node      // nil once extracted
	Loc  diag.Location
}

type definition struct {
	tree regex.Node
	loc  diag.Location
	used bool
}

// Parser holds the state of one parse. It is not safe for concurrent use.
type Parser struct {
	input    io.Reader
	fileName string
	text     string
	lines    []int // offsets of line starts, built on demand

	pos     lexer.Position
	scStack []int
	tkn     tokenInfo
	depth   int  // parenthesis nesting of the regex being parsed
	inDef   bool // ^ and $ are literals in definition bodies

	sink  diag.Sink
	diags *diag.Counter
	fatal bool

	options         map[string]string
	definitions     map[string]*definition
	defOrder        []string
	startConditions []string
	exclusive       valset.ValueSet
	patterns        []Pattern
}

type Option func(*Parser)

// WithSink sets where diagnostics go. The default is the logrus standard
// logger.
func WithSink(s diag.Sink) Option {
	return func(p *Parser) { p.diags.Next = s }
}

// WithMaxErrors stops the parse with a fatal message once n errors have been
// reported. Zero means no limit.
func WithMaxErrors(n int) Option {
	return func(p *Parser) { p.diags.Limit = n }
}

func New(r io.Reader, fileName string, opts ...Option) *Parser {
	p := &Parser{
		input:           r,
		fileName:        fileName,
		diags:           &diag.Counter{Next: diag.NewLogrusSink(nil)},
		options:         map[string]string{},
		definitions:     map[string]*definition{},
		startConditions: []string{InitialCondition},
	}
	p.sink = diag.SinkFunc(p.emit)
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Parser) FileName() string { return p.fileName }

// CurrentLine returns the source line holding the most recently scanned
// token.
func (p *Parser) CurrentLine() string { return p.lineText(p.tkn.loc.Line) }

// Patterns returns the parsed rules in file order. The slice is owned by the
// parser; use ExtractPatternTree to take a tree.
func (p *Parser) Patterns() []Pattern { return p.patterns }

// StartConditions returns the declared condition names. A name's index is
// the value stored in Pattern.SC.
func (p *Parser) StartConditions() []string {
	return append([]string(nil), p.startConditions...)
}

// Exclusive reports whether start condition i was declared with %xstart.
func (p *Parser) Exclusive(i int) bool { return p.exclusive.Contains(rune(i)) }

func (p *Parser) Options() map[string]string {
	out := make(map[string]string, len(p.options))
	for k, v := range p.options {
		out[k] = v
	}
	return out
}

// Definitions returns the definition names in declaration order.
func (p *Parser) Definitions() []string { return append([]string(nil), p.defOrder...) }

// ExtractPatternTree hands the tree of pattern n to the caller. It fails
// with ErrTreeExtracted when called again for the same n.
func (p *Parser) ExtractPatternTree(n int) (regex.Node, error) {
	if n < 0 || n >= len(p.patterns) {
		return nil, errors.Wrapf(ErrNoPattern, "pattern %d", n)
	}
	tree := p.patterns[n].Tree
	if tree == nil {
		return nil, errors.Wrapf(ErrTreeExtracted, "pattern %d", n)
	}
	p.patterns[n].Tree = nil
	return tree, nil
}

// Parse reads the whole input and fills the tables. It returns 0 on success
// and 1 when an error or fatal message was reported.
func (p *Parser) Parse() int {
	data, err := io.ReadAll(p.input)
	if err != nil {
		p.fatal = true
		diag.NewLog(p.diags, diag.Fatal).At(p.fileName, diag.Location{}).
			Print(errors.Wrap(err, "cannot read input")).Emit()
		return 1
	}
	p.text = string(data)
	p.pos = lexer.Position{Filename: p.fileName, Line: 1, Column: 1}
	p.scStack = []int{scDirectives}

	if p.parseDirectives() {
		p.parseRules()
	}
	if !p.fatal {
		p.reportUnused()
	}
	if p.diags.Failed() {
		return 1
	}
	return 0
}

// emit is the sink every parser message goes through. It turns the error
// limit into a fatal stop.
func (p *Parser) emit(m diag.Message) {
	p.diags.Emit(m)
	if !p.fatal && p.diags.Exceeded() {
		p.fatal = true
		diag.NewLog(p.diags, diag.Fatal).At(p.fileName, m.Loc).Source(m.Source).
			Printf("too many errors (%d), giving up", p.diags.Count(diag.Error)).Emit()
	}
}

func (p *Parser) logAt(sev diag.Severity, loc diag.Location) *diag.Log {
	return diag.NewLog(p.sink, sev).At(p.fileName, loc).Source(p.lineText(loc.Line))
}

func (p *Parser) logWarning() *diag.Log { return p.logAt(diag.Warning, p.tkn.loc) }

func (p *Parser) logError() *diag.Log { return p.logAt(diag.Error, p.tkn.loc) }

func (p *Parser) logSyntaxError(tt tokenType) int {
	return p.logError().Printf("unexpected %s", tt).Emit()
}

func (p *Parser) lineText(line int) string {
	if p.lines == nil {
		p.lines = []int{0}
		for i := 0; i < len(p.text); i++ {
			if p.text[i] == '\n' {
				p.lines = append(p.lines, i+1)
			}
		}
	}
	if line < 1 || line > len(p.lines) {
		return ""
	}
	start := p.lines[line-1]
	end := len(p.text)
	if line < len(p.lines) {
		end = p.lines[line] - 1
	}
	return p.text[start:end]
}

// parseDirectives consumes the directive section. It reports whether the
// section was closed by '%%'.
func (p *Parser) parseDirectives() bool {
	for {
		switch tt := p.lex(); tt {
		case tEOF:
			if !p.fatal {
				p.logError().Print("missing '%%' after the directive section").Emit()
			}
			return false
		case tNewLine:
		case tSectionSep:
			p.setState(scRules)
			p.endLine()
			return true
		case tOption:
			p.parseOption()
		case tStart, tXStart:
			p.parseStartDecl(tt == tXStart)
		case tIdent:
			p.parseDefinition()
		default:
			p.logSyntaxError(tt)
			p.skipLine(tt)
		}
	}
}

// endLine expects the current line to end after optional blanks and
// comments.
func (p *Parser) endLine() {
	if tt := p.lex(); tt != tNewLine && tt != tEOF {
		p.logSyntaxError(tt)
		p.skipLine(tt)
	}
}

func (p *Parser) parseStartDecl(exclusive bool) {
	count := 0
	for {
		tt := p.lex()
		switch tt {
		case tIdent:
			name := p.tkn.text
			count++
			if p.conditionIndex(name) >= 0 {
				p.logError().Printf("start condition '%s' is already declared", name).Emit()
				continue
			}
			if exclusive {
				p.exclusive.Add(rune(len(p.startConditions)))
			}
			p.startConditions = append(p.startConditions, name)
			continue
		case tNewLine, tEOF:
			if count == 0 {
				p.logError().Print("start condition name expected").Emit()
			}
		default:
			p.logSyntaxError(tt)
			p.skipLine(tt)
		}
		return
	}
}

func (p *Parser) conditionIndex(name string) int {
	for i, sc := range p.startConditions {
		if sc == name {
			return i
		}
	}
	return -1
}

func (p *Parser) parseDefinition() {
	name, loc := p.tkn.text, p.tkn.loc
	if tt := p.lex(); tt != tAssign {
		p.logError().Printf("'=' expected after definition name '%s'", name).Emit()
		p.skipLine(tt)
		return
	}

	p.push(scRegex)
	tt := p.lex()
	for tt == tBlank {
		tt = p.lex()
	}
	if tt == tNewLine || tt == tEOF {
		p.pop()
		p.logError().Printf("empty definition '%s'", name).Emit()
		return
	}
	p.inDef = true
	tree, tt := p.parseRegex(tt)
	p.inDef = false
	p.pop()
	p.endRegex(tt)

	tree = p.expand(tree)
	if prev, ok := p.definitions[name]; ok {
		p.logAt(diag.Error, loc).Printf("definition '%s' is already defined at line %d", name, prev.loc.Line).Emit()
		return
	}
	p.definitions[name] = &definition{tree: tree, loc: loc}
	p.defOrder = append(p.defOrder, name)
}

// endRegex checks the token that stopped a regex in the directive section.
func (p *Parser) endRegex(tt tokenType) {
	switch tt {
	case tNewLine, tEOF:
	case tBlank:
		p.endLine()
	default:
		p.logSyntaxError(tt)
		p.skipLine(tt)
	}
}

func (p *Parser) parseRules() {
	for {
		switch tt := p.lex(); tt {
		case tEOF, tSectionSep:
			return
		case tNewLine:
		case tLAngle:
			loc := p.tkn.loc
			if sc, ok := p.parseCondList(); ok {
				p.parseRule(sc, loc)
			}
		default:
			p.rewind()
			p.parseRule(p.inclusiveConditions(), p.tkn.loc)
		}
	}
}

// inclusiveConditions is the condition set of a rule without a <...> prefix.
func (p *Parser) inclusiveConditions() (sc valset.ValueSet) {
	for i := range p.startConditions {
		if !p.Exclusive(i) {
			sc.Add(rune(i))
		}
	}
	return sc
}

// parseCondList reads the names after '<' up to '>'.
func (p *Parser) parseCondList() (sc valset.ValueSet, ok bool) {
	p.push(scCondList)
	defer p.pop()
	expectName := true
	for {
		tt := p.lex()
		switch {
		case expectName && tt == tIdent:
			if i := p.conditionIndex(p.tkn.text); i >= 0 {
				sc.Add(rune(i))
			} else {
				p.logError().Printf("undeclared start condition '%s'", p.tkn.text).Emit()
			}
			expectName = false
		case expectName && tt == tStar:
			sc.AddRange(0, rune(len(p.startConditions)))
			expectName = false
		case !expectName && tt == tComma:
			expectName = true
		case !expectName && tt == tRAngle:
			return sc, true
		default:
			p.logSyntaxError(tt)
			p.skipLine(tt)
			return sc, false
		}
	}
}

// parseRule reads one rule: a regex and an optional pattern ID.
func (p *Parser) parseRule(sc valset.ValueSet, loc diag.Location) {
	p.push(scRegex)
	tt := p.lex()
	for tt == tBlank {
		tt = p.lex()
	}
	if tt == tNewLine || tt == tEOF {
		p.pop()
		p.logError().Print("regular expression expected").Emit()
		return
	}
	tree, tt := p.parseRegex(tt)
	p.pop()
	tree = p.expand(tree)

	var id string
	switch tt {
	case tNewLine, tEOF:
	case tBlank:
		p.push(scAction)
		tt = p.lex()
		if tt == tIdent {
			id = p.tkn.text
			tt = p.lex()
		}
		if tt != tNewLine && tt != tEOF {
			p.logSyntaxError(tt)
			p.skipLine(tt)
		}
		p.pop()
	default:
		p.logSyntaxError(tt)
		p.skipLine(tt)
	}

	p.patterns = append(p.patterns, Pattern{ID: id, SC: sc, Tree: tree, Loc: loc})
	p.logAt(diag.Debug, loc).Printf("pattern %d: %v", len(p.patterns)-1, tree).Emit()
}

// expand replaces every definition reference in n by a copy of the
// definition's tree. Undefined names match nothing.
func (p *Parser) expand(n regex.Node) regex.Node {
	return regex.Substitute(n, func(ref *regex.DefinitionRef) regex.Node {
		def, ok := p.definitions[ref.Name]
		if !ok {
			p.logAt(diag.Error, ref.Loc).Printf("undefined definition '%s'", ref.Name).Emit()
			return &regex.CharClass{}
		}
		def.used = true
		return regex.Clone(def.tree)
	})
}

func (p *Parser) reportUnused() {
	for _, name := range p.defOrder {
		if def := p.definitions[name]; !def.used {
			p.logAt(diag.Warning, def.loc).Printf("unused definition '%s'", name).Emit()
		}
	}
}
