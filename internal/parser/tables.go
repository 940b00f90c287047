package parser

import (
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

type tokenType int

const (
	tEOF         tokenType = iota
	tNewLine               // \n
	tSectionSep            // %%
	tOption                // %option ...; text holds the option list
	tStart                 // %start
	tXStart                // %xstart
	tIdent                 // name
	tAssign                // =
	tOther                 // anything unexpected
	tLAngle                // < opening a start condition list
	tRuleStart             // first character of a rule's regex
	tComma                 // ,
	tStar                  // *
	tRAngle                // >
	tBlank                 // whitespace ending a regex
	tOr                    // |
	tPlus                  // +
	tQuest                 // ?
	tLParen                // (
	tRParen                // )
	tDot                   // .
	tCaret                 // ^
	tDollar                // $
	tClassOpen             // [
	tClassNegOpen          // [^
	tClassClose            // ]
	tDash                  // - inside a class
	tClassName             // [:alpha:] and friends; set holds the members
	tQuote                 // "
	tBound                 // {m}, {m,}, {m,n}; min and max hold the bounds
	tDefRef                // {name}; text holds the name
	tLBrace                // { that starts neither a bound nor a reference
	tChar                  // one code point in code

	// raw escape forms, reported to the parser as tChar
	tEscHex
	tEscUnicode
	tEscOctal
	tEscape
	tEscEnd

	numTokenTypes
)

var tokenNames = [numTokenTypes]string{
	tEOF:          "end of file",
	tNewLine:      "end of line",
	tSectionSep:   "'%%'",
	tOption:       "'%option'",
	tStart:        "'%start'",
	tXStart:       "'%xstart'",
	tIdent:        "identifier",
	tAssign:       "'='",
	tOther:        "symbol",
	tLAngle:       "'<'",
	tRuleStart:    "regular expression",
	tComma:        "','",
	tStar:         "'*'",
	tRAngle:       "'>'",
	tBlank:        "white space",
	tOr:           "'|'",
	tPlus:         "'+'",
	tQuest:        "'?'",
	tLParen:       "'('",
	tRParen:       "')'",
	tDot:          "'.'",
	tCaret:        "'^'",
	tDollar:       "'$'",
	tClassOpen:    "'['",
	tClassNegOpen: "'[^'",
	tClassClose:   "']'",
	tDash:         "'-'",
	tClassName:    "character class name",
	tQuote:        "'\"'",
	tBound:        "repetition bound",
	tDefRef:       "definition reference",
	tLBrace:       "'{'",
	tChar:         "character",
	tEscHex:       "escape sequence",
	tEscUnicode:   "escape sequence",
	tEscOctal:     "escape sequence",
	tEscape:       "escape sequence",
	tEscEnd:       "escape sequence",
}

func (tt tokenType) String() string {
	if tt < 0 || tt >= numTokenTypes {
		return fmt.Sprintf("token(%d)", int(tt))
	}
	return tokenNames[tt]
}

// Lexical states. The parser keeps a stack of them; the top one selects the
// rule table used for the next token.
const (
	scDirectives = iota
	scRules
	scCondList
	scRegex
	scClass
	scString
	scAction
	numStates
)

// Shared rule groups. Lowercase rule names are dropped by the lexer.
var (
	ruleWhitespace = lexer.SimpleRule{Name: "whitespace", Pattern: `[ \t\r\f\v]+`}
	ruleComment    = lexer.SimpleRule{Name: "comment", Pattern: `#[^\n]*`}
	ruleNewLine    = lexer.SimpleRule{Name: "NewLine", Pattern: `\n`}
	ruleIdent      = lexer.SimpleRule{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`}
	ruleChar       = lexer.SimpleRule{Name: "Char", Pattern: `[^\n]`}

	escapeRules = []lexer.SimpleRule{
		{Name: "EscHex", Pattern: `\\x[0-9A-Za-z]{0,2}`},
		{Name: "EscUnicode", Pattern: `\\u[0-9A-Za-z]{0,4}`},
		{Name: "EscOctal", Pattern: `\\[0-7]{1,3}`},
		{Name: "Escape", Pattern: `\\[^\n]`},
		{Name: "EscEnd", Pattern: `\\`},
	}
)

var stateRules = [numStates][]lexer.SimpleRule{
	scDirectives: {
		ruleWhitespace,
		ruleComment,
		ruleNewLine,
		{Name: "SectionSep", Pattern: `%%`},
		{Name: "Option", Pattern: `%option\b[^\n]*`},
		{Name: "XStart", Pattern: `%xstart\b`},
		{Name: "Start", Pattern: `%start\b`},
		ruleIdent,
		{Name: "Assign", Pattern: `=`},
		{Name: "Other", Pattern: `[^\n]`},
	},
	scRules: {
		ruleWhitespace,
		ruleComment,
		ruleNewLine,
		{Name: "SectionSep", Pattern: `%%`},
		{Name: "LAngle", Pattern: `<`},
		{Name: "RuleStart", Pattern: `[^\n]`},
	},
	scCondList: {
		ruleWhitespace,
		ruleNewLine,
		ruleIdent,
		{Name: "Comma", Pattern: `,`},
		{Name: "Star", Pattern: `\*`},
		{Name: "RAngle", Pattern: `>`},
		{Name: "Other", Pattern: `[^\n]`},
	},
	scRegex: concatRules(
		[]lexer.SimpleRule{
			{Name: "Blank", Pattern: `[ \t\r\f\v]+`},
			ruleNewLine,
			{Name: "Or", Pattern: `\|`},
			{Name: "Star", Pattern: `\*`},
			{Name: "Plus", Pattern: `\+`},
			{Name: "Quest", Pattern: `\?`},
			{Name: "LParen", Pattern: `\(`},
			{Name: "RParen", Pattern: `\)`},
			{Name: "Dot", Pattern: `\.`},
			{Name: "Caret", Pattern: `\^`},
			{Name: "Dollar", Pattern: `\$`},
			{Name: "ClassNegOpen", Pattern: `\[\^`},
			{Name: "ClassOpen", Pattern: `\[`},
			{Name: "Quote", Pattern: `"`},
			{Name: "Bound", Pattern: `\{[0-9]+(?:,[0-9]*)?\}`},
			{Name: "DefRef", Pattern: `\{[A-Za-z_][A-Za-z0-9_]*\}`},
			{Name: "LBrace", Pattern: `\{`},
		},
		escapeRules,
		[]lexer.SimpleRule{ruleChar},
	),
	scClass: concatRules(
		[]lexer.SimpleRule{
			ruleNewLine,
			{Name: "ClassClose", Pattern: `\]`},
			{Name: "Dash", Pattern: `-`},
			{Name: "ClassName", Pattern: `\[:[a-z]+:\]`},
		},
		escapeRules,
		[]lexer.SimpleRule{ruleChar},
	),
	scString: concatRules(
		[]lexer.SimpleRule{
			ruleNewLine,
			{Name: "Quote", Pattern: `"`},
		},
		escapeRules,
		[]lexer.SimpleRule{{Name: "Char", Pattern: `[^\n"\\]`}},
	),
	scAction: {
		ruleWhitespace,
		ruleComment,
		ruleNewLine,
		ruleIdent,
		{Name: "Other", Pattern: `[^ \t\r\f\v\n]+`},
	},
}

var ruleTypes = map[string]tokenType{
	"NewLine":      tNewLine,
	"SectionSep":   tSectionSep,
	"Option":       tOption,
	"Start":        tStart,
	"XStart":       tXStart,
	"Ident":        tIdent,
	"Assign":       tAssign,
	"Other":        tOther,
	"LAngle":       tLAngle,
	"RuleStart":    tRuleStart,
	"Comma":        tComma,
	"Star":         tStar,
	"RAngle":       tRAngle,
	"Blank":        tBlank,
	"Or":           tOr,
	"Plus":         tPlus,
	"Quest":        tQuest,
	"LParen":       tLParen,
	"RParen":       tRParen,
	"Dot":          tDot,
	"Caret":        tCaret,
	"Dollar":       tDollar,
	"ClassOpen":    tClassOpen,
	"ClassNegOpen": tClassNegOpen,
	"ClassClose":   tClassClose,
	"Dash":         tDash,
	"ClassName":    tClassName,
	"Quote":        tQuote,
	"Bound":        tBound,
	"DefRef":       tDefRef,
	"LBrace":       tLBrace,
	"Char":         tChar,
	"EscHex":       tEscHex,
	"EscUnicode":   tEscUnicode,
	"EscOctal":     tEscOctal,
	"Escape":       tEscape,
	"EscEnd":       tEscEnd,
}

type scanTable struct {
	def   *lexer.StatefulDefinition
	types map[lexer.TokenType]tokenType
}

// scanTables are compiled once and shared by every Parser.
var scanTables = buildTables()

func buildTables() (tables [numStates]scanTable) {
	for sc, rules := range stateRules {
		def := lexer.MustSimple(rules)
		types := map[lexer.TokenType]tokenType{lexer.EOF: tEOF}
		for name, sym := range def.Symbols() {
			if tt, ok := ruleTypes[name]; ok {
				types[sym] = tt
			}
		}
		tables[sc] = scanTable{def: def, types: types}
	}
	return tables
}

func concatRules(groups ...[]lexer.SimpleRule) []lexer.SimpleRule {
	var out []lexer.SimpleRule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
