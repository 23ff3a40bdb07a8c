package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestLoggerDropsBelowLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, LevelInfo)

	l.Debug("hidden %d", 1)
	assert.Empty(t, out.String())

	l.Info("page %d done", 3)
	assert.Contains(t, out.String(), "page 3 done")

	l.Error("boom")
	assert.Contains(t, errOut.String(), "boom")
	assert.NotContains(t, out.String(), "boom")
}

func TestLoggerSetLevel(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out, LevelInfo)
	l.SetLevel(LevelDebug)

	l.Debug("visible")
	assert.Contains(t, out.String(), "visible")
}
