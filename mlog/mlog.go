// Package mlog is the default diagnostics sink for the markup parsers and
// serializers: a small leveled logger that Options.Report falls back to
// when the caller supplies none, so parse errors never vanish silently.
package mlog

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is one of the four severities a Logger emits at.
type Level int

const (
	T Level = iota // trace
	I              // info
	W              // warn
	E              // error
)

// Logger is a small, fluent, leveled wrapper around log.Logger. The zero
// value is ready to use and writes to stdout.
type Logger struct {
	Output   io.Writer
	NoStdout bool
	PrefixS  map[Level]string

	logger *log.Logger
}

// New builds a Logger writing to stdout, plus out if non-nil.
func New(out io.Writer) *Logger {
	l := &Logger{Output: out}
	l.reload()
	return l
}

func (l *Logger) prefixes() map[Level]string {
	if l.PrefixS == nil {
		l.PrefixS = map[Level]string{T: "T:", I: "I:", W: "W:", E: "E:"}
	}
	return l.PrefixS
}

func (l *Logger) reload() {
	var writers []io.Writer
	if l.Output != nil {
		writers = append(writers, l.Output)
	}
	if !l.NoStdout {
		writers = append(writers, os.Stdout)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}
	l.logger = log.New(io.MultiWriter(writers...), "", log.Ldate|log.Ltime)
}

func (l *Logger) ensure() *log.Logger {
	if l.logger == nil {
		l.reload()
	}
	return l.logger
}

// L logs i at the given level, space-joined, with the level's prefix.
func (l *Logger) L(level Level, i ...any) {
	prefix := l.prefixes()[level]
	logger := l.ensure()
	if prefix != logger.Prefix() {
		logger.SetPrefix(prefix)
	}
	parts := make([]string, len(i))
	for idx, v := range i {
		if s, ok := v.(string); ok {
			parts[idx] = s
		} else {
			parts[idx] = fmt.Sprint(v)
		}
	}
	logger.Println(strings.Join(parts, " "))
}

func (l *Logger) T(i ...any) { l.L(T, i...) }
func (l *Logger) I(i ...any) { l.L(I, i...) }
func (l *Logger) W(i ...any) { l.L(W, i...) }
func (l *Logger) E(i ...any) { l.L(E, i...) }
