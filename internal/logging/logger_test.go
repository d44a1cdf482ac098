package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewNop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Info("discarded", "err", "x")
	})
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestNew_JSONWithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf, Source: "outlines/"})

	logger.Debug("dropped")
	logger.Info("toggled", "error", "boom")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "toggled", rec["msg"])
	assert.Equal(t, "outlines/", rec["outlines"])
	assert.Equal(t, "boom", rec["err"])
	assert.NotContains(t, rec, "error")
}

func TestNew_TextDefaults(t *testing.T) {
	var buf bytes.Buffer
	New(Options{Level: slog.LevelWarn, Output: &buf}).Warn("slow pass", "touched", 3)

	line := buf.String()
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, "touched=3")
	assert.NotContains(t, line, "outlines=")
}
