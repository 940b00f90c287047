// Package report turns a finished parse into a serializable summary. It is
// the consumer side of the parser: every pattern tree is extracted exactly
// once.
package report

import (
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"lexegen/internal/diag"
	"lexegen/internal/parser"
	"lexegen/internal/regex"
)

type Report struct {
	File            string            `json:"file"`
	Status          int               `json:"status"`
	StartConditions []Condition       `json:"startConditions"`
	Options         map[string]string `json:"options,omitempty"`
	Definitions     []string          `json:"definitions,omitempty"`
	Patterns        []PatternInfo     `json:"patterns"`
	Diagnostics     []diag.Message    `json:"diagnostics,omitempty"`

	trees []regex.Node
}

type Condition struct {
	Name      string `json:"name"`
	Exclusive bool   `json:"exclusive,omitempty"`
}

type PatternInfo struct {
	ID              string   `json:"id,omitempty"`
	Line            int      `json:"line"`
	StartConditions []string `json:"startConditions"`
	Tree            string   `json:"tree"`
	First           string   `json:"first"`
	Nullable        bool     `json:"nullable,omitempty"`
}

// Build extracts the trees of p and summarizes them. msgs are the
// diagnostics collected while parsing; messages below Warning are left out.
func Build(p *parser.Parser, status int, msgs []diag.Message) (*Report, error) {
	r := &Report{
		File:        p.FileName(),
		Status:      status,
		Options:     p.Options(),
		Definitions: p.Definitions(),
	}
	names := p.StartConditions()
	for i, name := range names {
		r.StartConditions = append(r.StartConditions, Condition{Name: name, Exclusive: p.Exclusive(i)})
	}

	for i, pat := range p.Patterns() {
		tree, err := p.ExtractPatternTree(i)
		if err != nil {
			return nil, errors.Wrapf(err, "report for %s", p.FileName())
		}
		first, nullable := regex.FirstSet(tree)
		info := PatternInfo{
			ID:              pat.ID,
			Line:            pat.Loc.Line,
			StartConditions: []string{},
			Tree:            tree.String(),
			First:           first.String(),
			Nullable:        nullable,
		}
		for _, sc := range pat.SC.Values() {
			info.StartConditions = append(info.StartConditions, names[sc])
		}
		r.Patterns = append(r.Patterns, info)
		r.trees = append(r.trees, tree)
	}

	for _, m := range msgs {
		if m.Severity >= diag.Warning {
			r.Diagnostics = append(r.Diagnostics, m)
		}
	}
	return r, nil
}

// Tree returns the extracted tree of pattern n, or nil.
func (r *Report) Tree(n int) regex.Node {
	if n < 0 || n >= len(r.trees) {
		return nil
	}
	return r.trees[n]
}

func (r *Report) YAML() ([]byte, error) {
	out, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return out, nil
}
