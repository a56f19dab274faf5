package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"INFO", zerolog.InfoLevel, false},
		{" warn ", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"loud", zerolog.InfoLevel, true},
		{"", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: "warn", Format: FormatJSON})
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("file", "a.py").Int("line", 3).Msg("could not scan")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "a.py", rec["file"])
	assert.EqualValues(t, 3, rec["line"])
	assert.Equal(t, "could not scan", rec["message"])
	assert.Contains(t, rec, "time")
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, Options{Level: "debug"})
	require.NoError(t, err)

	log.Debug().Str("file", "a.py").Msg("rewrote file")

	out := buf.String()
	assert.Contains(t, out, "rewrote file")
	assert.Contains(t, out, "file=a.py")
	assert.NotContains(t, out, "\x1b[", "non-terminal writers get no color")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "verbose"})
	require.Error(t, err)

	_, err = New(&bytes.Buffer{}, Options{Level: "info", Format: "logfmt"})
	require.Error(t, err)
}
