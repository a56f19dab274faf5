// Package mypy runs the type checker and captures its report.
package mypy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// RequiredFlags are always passed: error codes make diagnostics actionable
// and pretty output would break the line grammar.
var RequiredFlags = []string{"--show-error-codes", "--no-pretty"}

// DefaultFlags are used when no flags are given.
var DefaultFlags = []string{"--strict"}

// DefaultStderrTail is how much checker stderr is kept for error messages.
const DefaultStderrTail = 8 << 10

// Generator produces a checker report for target.
type Generator interface {
	Generate(ctx context.Context, target string, flags []string) (string, error)
}

// BuildArgs returns the full argv: command, target, required flags, then
// either the user's flags or DefaultFlags.
func BuildArgs(command []string, target string, flags []string) []string {
	if noFlags(flags) {
		flags = DefaultFlags
	}
	args := make([]string, 0, len(command)+1+len(RequiredFlags)+len(flags))
	args = append(args, command...)
	args = append(args, target)
	args = append(args, RequiredFlags...)
	args = append(args, flags...)
	return args
}

func noFlags(flags []string) bool {
	return len(flags) == 0 || (len(flags) == 1 && strings.TrimSpace(flags[0]) == "")
}

// Runner runs the checker as a subprocess.
type Runner struct {
	// Command is the checker argv prefix, e.g. ["mypy"] or ["uv", "run", "mypy"].
	Command []string

	// Dir is the working directory. Empty means the current directory.
	Dir string

	// StderrTail bounds how much stderr is kept (0 = DefaultStderrTail).
	StderrTail int

	Logger zerolog.Logger
}

// Generate runs the checker and returns its stdout.
//
// Exit status 1 means the checker found errors and is expected. Any other
// non-zero status means the checker itself failed, and is returned as a
// *RunError carrying the tail of its stderr.
func (r *Runner) Generate(ctx context.Context, target string, flags []string) (string, error) {
	if len(r.Command) == 0 {
		return "", &RunError{Op: "mypy run", Err: errors.New("checker command is empty")}
	}
	argv := BuildArgs(r.Command, target, flags)

	tail := r.StderrTail
	if tail <= 0 {
		tail = DefaultStderrTail
	}
	stderr := newTailBuffer(tail)
	var stdout bytes.Buffer

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // Command is explicit user configuration.
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	r.Logger.Info().Str("command", strings.Join(argv, " ")).Msg("generating mypy report")

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", &RunError{Op: "mypy run", Err: ctxErr}
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
	case errors.As(err, &exitErr):
		return "", &RunError{
			Op:       "mypy run",
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
			Err:      err,
		}
	default:
		return "", &RunError{Op: "mypy start", Err: err}
	}

	r.Logger.Debug().
		Int("bytes", stdout.Len()).
		Str("stderr", stderr.String()).
		Msg("mypy finished")
	return stdout.String(), nil
}

// RunError is returned when the checker cannot be started or fails.
type RunError struct {
	Op       string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}
