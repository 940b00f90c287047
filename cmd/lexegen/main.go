// Command lexegen reads a lexer specification and reports the syntax tree of
// every rule, or draws one of them with Graphviz.
package main

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"lexegen/internal/diag"
	"lexegen/internal/parser"
	"lexegen/internal/regex"
	"lexegen/internal/report"
)

var errParseFailed = errors.New("specification has errors")

type cli struct {
	LogLevel  string `help:"Log level" default:"info" enum:"debug,info,warn,error" env:"LEXEGEN_LOG_LEVEL"`
	LogFormat string `help:"Log format" default:"text" enum:"text,json" env:"LEXEGEN_LOG_FORMAT"`
	MaxErrors int    `help:"Give up after this many errors, 0 for no limit" default:"0" env:"LEXEGEN_MAX_ERRORS"`

	Dump dumpCmd `cmd:"" help:"Parse a specification and print a YAML report"`
	Dot  dotCmd  `cmd:"" help:"Write the syntax tree of one pattern as a Graphviz graph"`
}

// globals is bound into every command's Run.
type globals struct {
	log       *logrus.Logger
	maxErrors int
	stdout    io.Writer
}

type dumpCmd struct {
	File   string `arg:"" type:"existingfile" help:"Specification file"`
	Output string `short:"o" default:"-" help:"Output file, - for stdout"`
}

type dotCmd struct {
	File    string `arg:"" type:"existingfile" help:"Specification file"`
	Pattern int    `short:"p" required:"" help:"Index of the pattern to draw"`
	Output  string `short:"o" default:"-" help:"Output file, - for stdout"`
	PNG     bool   `help:"Render PNG via dot -Tpng; needs -o"`
}

func main() {
	var params cli
	ctx := kong.Parse(&params,
		kong.Name("lexegen"),
		kong.Description("Lexer specification front end."),
		kong.UsageOnError(),
	)

	logger := logrus.New()
	level, err := logrus.ParseLevel(params.LogLevel)
	ctx.FatalIfErrorf(err)
	logger.SetLevel(level)
	if params.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	err = ctx.Run(&globals{log: logger, maxErrors: params.MaxErrors, stdout: os.Stdout})
	ctx.FatalIfErrorf(err)
}

// parse runs the parser over file. Diagnostics are logged and also returned.
func (g *globals) parse(file string) (*parser.Parser, int, []diag.Message, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, 0, nil, errors.Wrap(err, "open specification")
	}
	defer f.Close()

	c := &diag.Collector{}
	p := parser.New(bufio.NewReader(f), file,
		parser.WithSink(diag.Tee(diag.NewLogrusSink(g.log), c)),
		parser.WithMaxErrors(g.maxErrors),
	)
	status := p.Parse()
	g.log.WithFields(logrus.Fields{
		diag.FieldFile: file,
		"patterns":     len(p.Patterns()),
		"status":       status,
	}).Debug("specification parsed")
	return p, status, c.Messages(), nil
}

func (g *globals) write(name string, data []byte) error {
	if name == "-" {
		_, err := g.stdout.Write(data)
		return errors.Wrap(err, "write output")
	}
	return errors.Wrapf(os.WriteFile(name, data, 0o644), "write %s", name)
}

func (c *dumpCmd) Run(g *globals) error {
	p, status, msgs, err := g.parse(c.File)
	if err != nil {
		return err
	}
	r, err := report.Build(p, status, msgs)
	if err != nil {
		return err
	}
	out, err := r.YAML()
	if err != nil {
		return err
	}
	if err := g.write(c.Output, out); err != nil {
		return err
	}
	if status != 0 {
		return errors.Wrap(errParseFailed, c.File)
	}
	return nil
}

func (c *dotCmd) Run(g *globals) error {
	p, status, _, err := g.parse(c.File)
	if err != nil {
		return err
	}
	if status != 0 {
		return errors.Wrap(errParseFailed, c.File)
	}
	tree, err := p.ExtractPatternTree(c.Pattern)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	regex.ExportDOT(&buf, tree)

	if c.PNG {
		if c.Output == "-" {
			return errors.New("--png needs an output file")
		}
		cmd := exec.Command("dot", "-Tpng", "-o", c.Output)
		cmd.Stdin = bytes.NewReader(buf.Bytes())
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return errors.Wrap(err, "dot failed")
		}
		g.log.WithField("output", c.Output).Info("PNG written")
		return nil
	}
	return g.write(c.Output, buf.Bytes())
}
