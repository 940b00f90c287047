package report

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"sigs.k8s.io/yaml"

	"lexegen/internal/diag"
	"lexegen/internal/parser"
)

const spec = `%option noyywrap
%xstart COMMENT
DIGIT = [0-9]
UNUSED = x
%%
{DIGIT}+    NUMBER
<COMMENT>a? MAYBE_A
`

func build(t *testing.T, src string) (*parser.Parser, *Report) {
	t.Helper()
	c := &diag.Collector{}
	p := parser.New(strings.NewReader(src), "spec.lex", parser.WithSink(c))
	status := p.Parse()
	r, err := Build(p, status, c.Messages())
	assert.NoError(t, err)
	return p, r
}

func TestBuild(t *testing.T) {
	_, r := build(t, spec)
	assert.Equal(t, "spec.lex", r.File)
	assert.Equal(t, 0, r.Status)
	assert.Equal(t, []Condition{{Name: "initial"}, {Name: "COMMENT", Exclusive: true}}, r.StartConditions)
	assert.Equal(t, []string{"DIGIT", "UNUSED"}, r.Definitions)
	assert.Equal(t, "", r.Options["noyywrap"])

	assert.Equal(t, []PatternInfo{
		{
			ID:              "NUMBER",
			Line:            6,
			StartConditions: []string{"initial"},
			Tree:            "Closure(CharClass[0-9], 1, inf)",
			First:           "[0-9]",
		},
		{
			ID:              "MAYBE_A",
			Line:            7,
			StartConditions: []string{"COMMENT"},
			Tree:            "Closure(CharClass[a], 0, 1)",
			First:           "[a]",
			Nullable:        true,
		},
	}, r.Patterns)

	// debug messages are dropped, the unused definition warning is kept
	assert.Equal(t, 1, len(r.Diagnostics))
	assert.Equal(t, "unused definition 'UNUSED'", r.Diagnostics[0].Text)

	assert.Equal(t, "Closure(CharClass[0-9], 1, inf)", r.Tree(0).String())
	assert.Zero(t, r.Tree(2))
}

func TestBuildTakesTrees(t *testing.T) {
	p, _ := build(t, spec)
	_, err := Build(p, 0, nil)
	assert.IsError(t, err, parser.ErrTreeExtracted)
}

func TestYAML(t *testing.T) {
	_, r := build(t, spec)
	out, err := r.YAML()
	assert.NoError(t, err)
	text := string(out)
	assert.Contains(t, text, "file: spec.lex")
	assert.Contains(t, text, "severity: warning")
	assert.Contains(t, text, "id: NUMBER")

	var back Report
	assert.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, r.Patterns, back.Patterns)
	assert.Equal(t, r.StartConditions, back.StartConditions)
}
