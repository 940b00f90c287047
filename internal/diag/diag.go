// Package diag carries diagnostics produced while reading a specification:
// severities, source locations, a message builder and the sinks messages are
// handed to.
package diag

import (
	"fmt"
	"strings"
)

type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
	Fatal
	numSeverities
)

var severityNames = [numSeverities]string{"debug", "info", "warning", "error", "fatal"}

func (s Severity) String() string {
	if s < 0 || s >= numSeverities {
		return fmt.Sprintf("severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText lets reports print severities by name.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", text)
}

// Location of a token: 1-based line and column, columns counted in code
// points. The zero Location means "no location".
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l Location) IsValid() bool { return l.Line > 0 }

func (l Location) String() string { return fmt.Sprintf("%d:%d", l.Line, l.Column) }

// Message is one emitted diagnostic.
type Message struct {
	Severity Severity `json:"severity"`
	File     string   `json:"file,omitempty"`
	Loc      Location `json:"location"`
	Text     string   `json:"text"`
	// physical source line the location points into
	Source string `json:"source,omitempty"`
}

// String formats m as "file:line:col: severity: text".
func (m Message) String() string {
	var b strings.Builder
	if m.File != "" {
		b.WriteString(m.File)
		b.WriteByte(':')
	}
	if m.Loc.IsValid() {
		b.WriteString(m.Loc.String())
		b.WriteByte(':')
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(m.Severity.String())
	b.WriteString(": ")
	b.WriteString(m.Text)
	return b.String()
}

// Log accumulates the text of one message. Nothing reaches the sink until
// Emit is called.
//
//	return diag.NewLog(sink, diag.Error).At(file, loc).Printf("bad %q", s).Emit()
type Log struct {
	sink Sink
	msg  Message
	buf  strings.Builder
}

func NewLog(sink Sink, sev Severity) *Log {
	return &Log{sink: sink, msg: Message{Severity: sev}}
}

// At sets the file name and location the message refers to.
func (l *Log) At(file string, loc Location) *Log {
	l.msg.File, l.msg.Loc = file, loc
	return l
}

// Source attaches the source line text.
func (l *Log) Source(line string) *Log {
	l.msg.Source = strings.TrimRight(line, "\r")
	return l
}

func (l *Log) Print(vals ...any) *Log {
	fmt.Fprint(&l.buf, vals...)
	return l
}

func (l *Log) Printf(format string, args ...any) *Log {
	fmt.Fprintf(&l.buf, format, args...)
	return l
}

// Write makes a Log usable as an io.Writer.
func (l *Log) Write(p []byte) (int, error) { return l.buf.Write(p) }

// Emit hands the message to the sink. It always returns -1 so grammar code
// can write `return p.logError().Print(...).Emit()` in int-returning paths.
func (l *Log) Emit() int {
	l.msg.Text = l.buf.String()
	if l.sink != nil {
		l.sink.Emit(l.msg)
	}
	return -1
}
