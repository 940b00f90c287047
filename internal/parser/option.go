package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"lexegen/internal/diag"
)

// optionLine is the text after %option: a list of name or name=value.
type optionLine struct {
	Entries []*optionEntry `parser:"@@+"`
}

type optionEntry struct {
	Pos   lexer.Position
	Name  string  `parser:"@Ident"`
	Value *string `parser:"( '=' @(String | Ident | Int) )?"`
}

var optionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_.-]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `=`},
	{Name: "whitespace", Pattern: `[ \t\r]+`},
})

var optionParser = participle.MustBuild[optionLine](
	participle.Lexer(optionLexer),
	participle.Unquote("String"),
)

const optionKeyword = "%option"

// parseOption records the entries of the current %option token. A repeated
// name is a warning and the last value wins.
func (p *Parser) parseOption() {
	base := p.tkn.start
	base.Advance(optionKeyword)
	line, err := optionParser.ParseString(p.fileName, p.tkn.text[len(optionKeyword):])
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			p.logAt(diag.Error, location(base.Add(perr.Position()))).Printf("invalid option: %s", perr.Message()).Emit()
			return
		}
		p.logError().Printf("invalid option: %v", err).Emit()
		return
	}
	for _, e := range line.Entries {
		loc := location(base.Add(e.Pos))
		if _, dup := p.options[e.Name]; dup {
			p.logAt(diag.Warning, loc).Printf("option '%s' is redefined", e.Name).Emit()
		}
		value := ""
		if e.Value != nil {
			value = *e.Value
		}
		p.options[e.Name] = value
	}
}
