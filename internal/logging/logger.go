// Package logging provides a small leveled logger used to surface the
// scanner's diagnostic output (the `verbosity` knob). It mirrors the
// teacher pack's own diagnostic logger: nil-safe, prefixable, and built on
// top of the standard library's log package rather than a heavier logging
// framework.
package logging

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
)

// Logger is the main logger type. A nil *Logger is valid and logs nothing,
// so callers can pass a nil logger through code paths where diagnostics are
// disabled without branching on it everywhere.
type Logger struct {
	prefix string
	level  Level
	output *log.Logger
}

// New creates a root logger at the given level, writing to os.Stderr.
func New(level Level) *Logger {
	return &Logger{
		level:  level,
		output: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// Sublogger creates a new sublogger with the specified name appended to the
// parent's prefix. A nil receiver returns nil.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{
		prefix: prefix,
		level:  l.level,
		output: l.output,
	}
}

// Enabled reports whether a message at the given level would be logged.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && l.level >= level
}

func (l *Logger) line(level Level, format string, v ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		msg = fmt.Sprintf("[%s] %s", l.prefix, msg)
	}
	l.output.Output(3, msg) //nolint:errcheck
}

// Errorf logs a fatal-class message, colorized red.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if !l.Enabled(LevelError) {
		return
	}
	l.line(LevelError, "%s", color.RedString(fmt.Sprintf(format, v...)))
}

// Warnf logs a non-fatal, skip-class message, colorized yellow.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if !l.Enabled(LevelWarn) {
		return
	}
	l.line(LevelWarn, "%s", color.YellowString(fmt.Sprintf(format, v...)))
}

// Infof logs phase/scan-level progress.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.line(LevelInfo, format, v...)
}

// Debugf logs per-directory traversal detail.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.line(LevelDebug, format, v...)
}

// Tracef logs per-file and per-phase detail.
func (l *Logger) Tracef(format string, v ...interface{}) {
	l.line(LevelTrace, format, v...)
}
