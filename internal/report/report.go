// Package report parses the text report written by mypy when run with
// --show-error-codes and --no-pretty.
//
// Each actionable line becomes either a Diagnostic (a suppression code must
// be added) or an UnusedSuppression (an existing annotation, or some of its
// codes, must be removed). Lines the parser does not understand are
// rejected rather than skipped, since dropping one would leave a file only
// partially suppressed.
package report

import (
	"cmp"
	"fmt"
	"slices"
)

// SuccessMarker starts the single line mypy prints for a clean run.
const SuccessMarker = "Success: no issues found in"

// Diagnostic is one reported error that needs a suppression code.
type Diagnostic struct {
	// Path is the file path exactly as reported.
	Path string

	// Line is the 0-based line index (mypy reports 1-based lines).
	Line int

	// Column is the 1-based column when reported, 0 otherwise.
	Column int

	// Severity is the reported severity ("error").
	Severity string

	// Message is the diagnostic text without the trailing code.
	Message string

	// Code is the error code from the trailing brackets.
	Code string
}

// UnusedSuppression reports an annotation whose codes are no longer needed.
type UnusedSuppression struct {
	// Path is the file path exactly as reported.
	Path string

	// Line is the 0-based line index.
	Line int

	// Codes lists the unused codes. Empty means the whole annotation is unused.
	Codes []string
}

// Report is the parsed content of one checker report.
type Report struct {
	Diagnostics []Diagnostic
	Unused      []UnusedSuppression

	// Notes counts informational lines that carry no edit.
	Notes int
}

// Empty reports whether there is nothing to apply.
func (r *Report) Empty() bool {
	return len(r.Diagnostics) == 0 && len(r.Unused) == 0
}

// Files returns the distinct file paths referenced by the report, sorted.
func (r *Report) Files() []string {
	files := make([]string, 0, len(r.Diagnostics)+len(r.Unused))
	for _, d := range r.Diagnostics {
		files = append(files, d.Path)
	}
	for _, u := range r.Unused {
		files = append(files, u.Path)
	}
	slices.Sort(files)
	return slices.Compact(files)
}

// CompareDiagnostics orders diagnostics by path, line, then code.
func CompareDiagnostics(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		cmp.Compare(a.Line, b.Line),
		cmp.Compare(a.Code, b.Code),
	)
}

// CompareUnused orders unused suppressions by path, then line.
func CompareUnused(a, b UnusedSuppression) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		cmp.Compare(a.Line, b.Line),
	)
}

// NoIssuesError is returned when the report says the checker found nothing.
type NoIssuesError struct {
	// Line is the success line as reported.
	Line string
}

func (e *NoIssuesError) Error() string {
	return fmt.Sprintf("report contains a line starting with %q, there is nothing to do: %s", SuccessMarker, e.Line)
}

// UnrecognizedLineError is returned for a report line that is neither a
// diagnostic, an unused suppression, nor a note.
type UnrecognizedLineError struct {
	// Line is the 1-based line number within the report text.
	Line int

	// Text is the offending line.
	Text string

	// Reason says which part of the line grammar did not match.
	Reason string
}

func (e *UnrecognizedLineError) Error() string {
	return fmt.Sprintf("unrecognized report line %d (%s): %s", e.Line, e.Reason, e.Text)
}
