// Package reporter provides output formatters for run results.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors
//   - json: Machine-readable JSON output
//   - github-actions: Native GitHub Actions workflow annotations
//   - markdown: Concise markdown tables for pull request comments
package reporter

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/wharflab/cleanslate/internal/pipeline"
)

// Metadata contains contextual information about the run.
type Metadata struct {
	// ReportPath is the checker report the run applied.
	ReportPath string

	// DryRun is true when no file was written.
	DryRun bool
}

// Reporter formats and outputs run results.
type Reporter interface {
	// Report writes the result to the configured output.
	Report(res *pipeline.Result, meta Metadata) error
}

// EditKind says which pass produced an edit.
type EditKind string

const (
	// EditPruned is an edit from the prune pass.
	EditPruned EditKind = "pruned"
	// EditAdded is an edit from the add pass.
	EditAdded EditKind = "added"
)

// Edit is one rewritten line, flattened out of a result for output.
type Edit struct {
	// File uses forward slashes regardless of platform.
	File string `json:"file"`

	// Line is 1-based.
	Line int `json:"line"`

	Kind   EditKind `json:"kind"`
	Before string   `json:"before"`
	After  string   `json:"after"`
}

// CollectEdits flattens res into edits sorted by file, line, then pass
// (pruned before added).
func CollectEdits(res *pipeline.Result) []Edit {
	var edits []Edit
	for _, fc := range res.Pruned {
		for _, a := range fc.Applied {
			edits = append(edits, Edit{File: filepath.ToSlash(fc.Path), Line: a.Line + 1, Kind: EditPruned, Before: a.Before, After: a.After})
		}
	}
	for _, fc := range res.Added {
		for _, a := range fc.Applied {
			edits = append(edits, Edit{File: filepath.ToSlash(fc.Path), Line: a.Line + 1, Kind: EditAdded, Before: a.Before, After: a.After})
		}
	}
	slices.SortStableFunc(edits, func(a, b Edit) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			// "added" sorts before "pruned"; passes run the other way round.
			-cmp.Compare(a.Kind, b.Kind),
		)
	})
	return edits
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatGitHubActions is GitHub Actions workflow command output.
	FormatGitHubActions Format = "github-actions"
	// FormatMarkdown is concise markdown tables.
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "github-actions", "github":
		return FormatGitHubActions, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, github-actions, markdown)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowEdits lists every rewritten line (text format only).
	ShowEdits bool
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(opts.Writer, TextOptions{Color: opts.Color, ShowEdits: opts.ShowEdits}), nil
	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(opts.Writer), nil
	case FormatMarkdown:
		return NewMarkdownReporter(opts.Writer), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// pluralize returns singular or plural form based on count.
func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// GetWriter returns a writer for the given output path.
// Supports "stdout", "stderr", or a file path.
// Returns the writer, a close function, and any error.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
