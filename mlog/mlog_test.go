package mlog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelsCarryPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	l.NoStdout = true
	l.reload()

	l.E("boom", 1)
	if got := buf.String(); !strings.Contains(got, "E:") || !strings.Contains(got, "boom 1") {
		t.Fatalf("unexpected log line: %q", got)
	}
}

func TestLoggerDefaultPrefixes(t *testing.T) {
	l := &Logger{NoStdout: true}
	if got := l.prefixes()[W]; got != "W:" {
		t.Fatalf("prefixes()[W] = %q, want W:", got)
	}
}
