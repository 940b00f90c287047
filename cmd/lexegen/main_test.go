package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus/hooks/test"

	"lexegen/internal/parser"
)

func writeSpec(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.lex")
	assert.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func newGlobals(out *bytes.Buffer) *globals {
	logger, _ := test.NewNullLogger()
	return &globals{log: logger, stdout: out}
}

func TestDump(t *testing.T) {
	path := writeSpec(t, "D = [0-9]\n%%\n{D}+ NUMBER\n")
	var out bytes.Buffer
	assert.NoError(t, (&dumpCmd{File: path, Output: "-"}).Run(newGlobals(&out)))
	assert.Contains(t, out.String(), "id: NUMBER")
	assert.Contains(t, out.String(), "status: 0")
}

func TestDumpFailure(t *testing.T) {
	path := writeSpec(t, "%%\na** BAD\n")
	var out bytes.Buffer
	err := (&dumpCmd{File: path, Output: "-"}).Run(newGlobals(&out))
	assert.IsError(t, err, errParseFailed)
	// the report is still written
	assert.Contains(t, out.String(), "severity: error")
}

func TestDot(t *testing.T) {
	path := writeSpec(t, "%%\na|b\nc+\n")
	var out bytes.Buffer
	g := newGlobals(&out)
	assert.NoError(t, (&dotCmd{File: path, Pattern: 1, Output: "-"}).Run(g))
	assert.HasPrefix(t, out.String(), "digraph G {")
	assert.Contains(t, out.String(), `label="+"`)

	err := (&dotCmd{File: path, Pattern: 5, Output: "-"}).Run(g)
	assert.IsError(t, err, parser.ErrNoPattern)
}

func TestDotToFile(t *testing.T) {
	path := writeSpec(t, "%%\nx\n")
	outPath := filepath.Join(t.TempDir(), "tree.dot")
	assert.NoError(t, (&dotCmd{File: path, Pattern: 0, Output: outPath}).Run(newGlobals(nil)))
	data, err := os.ReadFile(outPath)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `shape=ellipse, label="[x]"`)
}

func TestFlags(t *testing.T) {
	path := writeSpec(t, "%%\nx\n")
	var params cli
	k, err := kong.New(&params, kong.Name("lexegen"))
	assert.NoError(t, err)
	ctx, err := k.Parse([]string{"--max-errors=3", "--log-format=json", "dot", path, "-p", "0"})
	assert.NoError(t, err)
	assert.Equal(t, "dot <file>", ctx.Command())
	assert.Equal(t, 3, params.MaxErrors)
	assert.Equal(t, "json", params.LogFormat)
	assert.Equal(t, "info", params.LogLevel)
	assert.Equal(t, path, params.Dot.File)
	assert.Equal(t, "-", params.Dot.Output)
}

func TestPatternFlagRequired(t *testing.T) {
	path := writeSpec(t, "%%\nx\n")
	k, err := kong.New(&cli{}, kong.Name("lexegen"))
	assert.NoError(t, err)
	_, err = k.Parse([]string{"dot", path})
	assert.EqualError(t, err, "missing flags: --pattern=INT")
}
