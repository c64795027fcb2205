// Package diag is the levelled diagnostic logger shared by the pipeline
// stages and the command line tool.
package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Level is the verbosity of a Logger.
type Level int

const (
	ErrorLevel Level = iota
	WarningLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) String() string {
	switch l {
	case ErrorLevel:
		return "ERROR"
	case WarningLevel:
		return "WARNING"
	case InfoLevel:
		return "INFO"
	case DebugLevel:
		return "DEBUG"
	case TraceLevel:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return ErrorLevel, nil
	case "WARNING", "WARN":
		return WarningLevel, nil
	case "", "INFO":
		return InfoLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "TRACE":
		return TraceLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger writes one line per message when the message level is within
// Level.
type Logger struct {
	Level    Level
	Output   io.Writer
	ShowTime bool
	Prefix   string
}

// New returns a Logger writing to stderr.
func New(level Level) *Logger {
	return &Logger{
		Level:  level,
		Output: os.Stderr,
	}
}

// NewFile returns a Logger writing timestamped lines to filename.
func NewFile(level Level, filename string) (*Logger, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &Logger{
		Level:    level,
		Output:   file,
		ShowTime: true,
	}, nil
}

// Discard drops everything.
func Discard() *Logger {
	return &Logger{Level: ErrorLevel, Output: io.Discard}
}

// With returns a copy of l whose lines carry prefix.
func (l *Logger) With(prefix string) *Logger {
	if l == nil {
		return nil
	}
	c := *l
	if c.Prefix != "" {
		prefix = c.Prefix + "/" + prefix
	}
	c.Prefix = prefix
	return &c
}

// Enabled reports whether a message at level would be written. A nil
// Logger is silent.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.Output != nil && level <= l.Level
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	var b strings.Builder
	if l.ShowTime {
		b.WriteString(time.Now().Format("15:04:05.000 "))
	}
	fmt.Fprintf(&b, "[%s] ", level)
	if l.Prefix != "" {
		fmt.Fprintf(&b, "%s: ", l.Prefix)
	}
	fmt.Fprintf(&b, format, args...)
	b.WriteByte('\n')
	fmt.Fprint(l.Output, b.String())
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

func (l *Logger) Trace(format string, args ...interface{}) {
	l.log(TraceLevel, format, args...)
}

// Stage logs the result of one pipeline step.
func (l *Logger) Stage(format string, args ...interface{}) {
	l.log(DebugLevel, "STAGE: "+format, args...)
}

// Fit logs device fitting decisions such as pin placement.
func (l *Logger) Fit(format string, args ...interface{}) {
	l.log(DebugLevel, "FIT: "+format, args...)
}

// Terms logs product term bookkeeping.
func (l *Logger) Terms(format string, args ...interface{}) {
	l.log(TraceLevel, "TERMS: "+format, args...)
}
