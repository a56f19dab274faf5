package mypy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name    string
		command []string
		flags   []string
		want    []string
	}{
		{
			name:    "defaults to strict",
			command: []string{"mypy"},
			want:    []string{"mypy", "src", "--show-error-codes", "--no-pretty", "--strict"},
		},
		{
			name:    "single empty flag counts as none",
			command: []string{"mypy"},
			flags:   []string{""},
			want:    []string{"mypy", "src", "--show-error-codes", "--no-pretty", "--strict"},
		},
		{
			name:    "custom flags replace strict",
			command: []string{"uv", "run", "mypy"},
			flags:   []string{"--disallow-untyped-defs", "--python-version", "3.12"},
			want: []string{
				"uv", "run", "mypy", "src", "--show-error-codes", "--no-pretty",
				"--disallow-untyped-defs", "--python-version", "3.12",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildArgs(tt.command, "src", tt.flags))
		})
	}
}

func TestSplitFlags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"--strict", []string{"--strict"}},
		{"--strict  --warn-unused-ignores", []string{"--strict", "--warn-unused-ignores"}},
		{`--exclude 'build/.*' --python-version "3.12"`, []string{"--exclude", "build/.*", "--python-version", "3.12"}},
		{"--exclude=tests/*", []string{"--exclude=tests/*"}},
		{`--config-file "my config.ini"`, []string{"--config-file", "my config.ini"}},
	}

	for _, tt := range tests {
		got, err := SplitFlags(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestSplitFlagsRejects(t *testing.T) {
	for _, in := range []string{
		"--strict $EXTRA",
		`--config-file "$HOME/mypy.ini"`,
		"--strict | tee out",
		"--strict > out.txt",
		"--strict; rm -rf x",
		"--strict 'unterminated",
	} {
		_, err := SplitFlags(in)
		var flagsErr *FlagsError
		if !errors.As(err, &flagsErr) {
			t.Errorf("SplitFlags(%q) error = %v, want *FlagsError", in, err)
		}
	}
}

// fakeChecker writes a shell script that echoes its arguments to stdout,
// writes to stderr, and exits with $FAKE_MYPY_EXIT.
func fakeChecker(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	path := filepath.Join(t.TempDir(), "fake-mypy")
	script := "#!/bin/sh\n" +
		"echo \"a.py:1: error: args $* [misc]\"\n" +
		"echo 'checker stderr' >&2\n" +
		"exit ${FAKE_MYPY_EXIT:-1}\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunnerGenerate(t *testing.T) {
	r := &Runner{Command: []string{fakeChecker(t)}, Logger: zerolog.Nop()}

	out, err := r.Generate(context.Background(), "src", nil)
	require.NoError(t, err, "exit status 1 means errors were found")
	assert.Equal(t, "a.py:1: error: args src --show-error-codes --no-pretty --strict [misc]\n", out)
}

func TestRunnerGenerateCleanExit(t *testing.T) {
	r := &Runner{Command: []string{fakeChecker(t)}, Logger: zerolog.Nop()}
	t.Setenv("FAKE_MYPY_EXIT", "0")

	out, err := r.Generate(context.Background(), ".", []string{"--warn-unused-ignores"})
	require.NoError(t, err)
	assert.Contains(t, out, "--warn-unused-ignores")
	assert.NotContains(t, out, "--strict")
}

func TestRunnerGenerateFailure(t *testing.T) {
	r := &Runner{Command: []string{fakeChecker(t)}, Logger: zerolog.Nop()}
	t.Setenv("FAKE_MYPY_EXIT", "2")

	_, err := r.Generate(context.Background(), ".", nil)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, 2, runErr.ExitCode)
	assert.Equal(t, "checker stderr\n", runErr.Stderr)
	assert.True(t, strings.HasSuffix(err.Error(), "checker stderr"))
}

func TestRunnerGenerateMissingCommand(t *testing.T) {
	r := &Runner{Command: []string{filepath.Join(t.TempDir(), "no-such-mypy")}, Logger: zerolog.Nop()}

	_, err := r.Generate(context.Background(), ".", nil)
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, "mypy start", runErr.Op)
}

func TestRunnerGenerateEmptyCommand(t *testing.T) {
	_, err := (&Runner{}).Generate(context.Background(), ".", nil)
	require.Error(t, err)
}

func TestRunnerGenerateCanceled(t *testing.T) {
	r := &Runner{Command: []string{fakeChecker(t)}, Logger: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, ".", nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(4)
	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)
	assert.Equal(t, "cdef", b.String())
}
