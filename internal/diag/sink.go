package diag

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// A Sink receives emitted messages.
type Sink interface {
	Emit(m Message)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(m Message)

func (f SinkFunc) Emit(m Message) { f(m) }

// Discard drops every message.
var Discard Sink = SinkFunc(func(Message) {})

// Log field names used by LogrusSink.
const (
	FieldFile   = "file"
	FieldLine   = "line"
	FieldColumn = "column"
)

var logrusLevels = [numSeverities]logrus.Level{
	Debug:   logrus.DebugLevel,
	Info:    logrus.InfoLevel,
	Warning: logrus.WarnLevel,
	Error:   logrus.ErrorLevel,
	Fatal:   logrus.FatalLevel,
}

// LogrusSink writes messages as logrus entries. A Fatal message is logged at
// fatal level but does not exit the process.
type LogrusSink struct {
	Logger logrus.FieldLogger
}

// NewLogrusSink returns a sink writing to logger, or to the logrus standard
// logger when logger is nil.
func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusSink{Logger: logger}
}

func (s *LogrusSink) Emit(m Message) {
	fields := logrus.Fields{}
	if m.File != "" {
		fields[FieldFile] = m.File
	}
	if m.Loc.IsValid() {
		fields[FieldLine] = m.Loc.Line
		fields[FieldColumn] = m.Loc.Column
	}
	level := logrus.ErrorLevel
	if m.Severity >= 0 && m.Severity < numSeverities {
		level = logrusLevels[m.Severity]
	}
	entry := s.Logger.WithFields(fields)
	entry.Log(level, m.Text)
}

// Collector keeps every message it receives.
type Collector struct {
	mu       sync.Mutex
	messages []Message
}

func (c *Collector) Emit(m Message) {
	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
}

// Messages returns a copy of the collected messages.
func (c *Collector) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Counter counts messages per severity and forwards them to Next.
//
// With Limit > 0, Exceeded reports true once Limit errors have been seen.
type Counter struct {
	Next  Sink
	Limit int

	counts [numSeverities]int
}

func (c *Counter) Emit(m Message) {
	if m.Severity >= 0 && m.Severity < numSeverities {
		c.counts[m.Severity]++
	}
	if c.Next != nil {
		c.Next.Emit(m)
	}
}

// Count returns how many messages of severity sev were emitted.
func (c *Counter) Count(sev Severity) int {
	if sev < 0 || sev >= numSeverities {
		return 0
	}
	return c.counts[sev]
}

// Failed reports whether any Error or Fatal message was emitted.
func (c *Counter) Failed() bool { return c.counts[Error]+c.counts[Fatal] > 0 }

func (c *Counter) Exceeded() bool { return c.Limit > 0 && c.counts[Error] >= c.Limit }

// Tee forwards every message to all sinks.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(m Message) {
		for _, s := range sinks {
			if s != nil {
				s.Emit(m)
			}
		}
	})
}
