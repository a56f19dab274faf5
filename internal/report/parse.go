package report

import (
	"errors"
	"regexp"
	"slices"
	"strings"
)

// summaryPattern matches the closing summary, e.g.
// "Found 1 error in 1 file (checked 5 source files)".
var summaryPattern = regexp.MustCompile(`^Found [0-9]+ errors? in [0-9]+`)

const (
	severityError = "error"
	severityNote  = "note"

	unusedIgnoreCode = "unused-ignore"
	unusedPrefix     = `Unused "type: ignore`
)

// Parse reads a full report.
//
// The summary line and blank lines are dropped and the remaining lines are
// sorted, so records come out grouped by file regardless of the order mypy
// printed them in. A success line anywhere in the report yields a
// *NoIssuesError; a line that fits no known shape yields an
// *UnrecognizedLineError.
func Parse(text string) (*Report, error) {
	lines := numberedLines(text)

	for _, line := range lines {
		if strings.HasPrefix(line.text, SuccessMarker) {
			return nil, &NoIssuesError{Line: line.text}
		}
	}

	r := &Report{}
	for _, line := range lines {
		if err := r.add(line.text); err != nil {
			var unrecognized *UnrecognizedLineError
			if errors.As(err, &unrecognized) {
				unrecognized.Line = line.number
			}
			return nil, err
		}
	}

	slices.SortFunc(r.Diagnostics, CompareDiagnostics)
	r.Diagnostics = slices.CompactFunc(r.Diagnostics, func(a, b Diagnostic) bool {
		return a.Path == b.Path && a.Line == b.Line && a.Code == b.Code
	})
	slices.SortStableFunc(r.Unused, CompareUnused)
	return r, nil
}

// numberedLine is a significant report line and its 1-based position in
// the report text.
type numberedLine struct {
	text   string
	number int
}

// numberedLines returns the significant lines of text sorted by content.
func numberedLines(text string) []numberedLine {
	var lines []numberedLine
	n := 0
	for line := range strings.SplitSeq(text, "\n") {
		n++
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" || summaryPattern.MatchString(line) {
			continue
		}
		lines = append(lines, numberedLine{text: line, number: n})
	}
	slices.SortStableFunc(lines, func(a, b numberedLine) int {
		return strings.Compare(a.text, b.text)
	})
	return lines
}

// Lines splits report text into its significant lines: summary and blank
// lines removed, trailing carriage returns trimmed, sorted.
func Lines(text string) []string {
	numbered := numberedLines(text)
	lines := make([]string, len(numbered))
	for i, line := range numbered {
		lines[i] = line.text
	}
	return lines
}

// add classifies one line and appends the resulting record.
func (r *Report) add(line string) error {
	e, err := scanEntry(line)
	if err != nil {
		return &UnrecognizedLineError{Text: line, Reason: err.Error()}
	}

	switch {
	case isUnusedSuppression(e):
		r.Unused = append(r.Unused, UnusedSuppression{
			Path:  e.path,
			Line:  e.line - 1,
			Codes: unusedCodes(e.message),
		})
	case e.severity == severityNote:
		r.Notes++
	case e.severity == severityError && e.code != "":
		r.Diagnostics = append(r.Diagnostics, Diagnostic{
			Path:     e.path,
			Line:     e.line - 1,
			Column:   e.column(),
			Severity: e.severity,
			Message:  e.message,
			Code:     e.code,
		})
	case e.severity != severityError:
		return &UnrecognizedLineError{Text: line, Reason: "unknown severity " + e.severity}
	default:
		return &UnrecognizedLineError{Text: line, Reason: "error without a bracketed code"}
	}
	return nil
}

func isUnusedSuppression(e entry) bool {
	return e.code == unusedIgnoreCode || strings.HasPrefix(e.message, unusedPrefix)
}

// unusedCodes extracts the codes from a message such as
// `Unused "type: ignore[a, b]" comment`. A bare reference yields nil.
func unusedCodes(msg string) []string {
	_, after, ok := strings.Cut(msg, unusedPrefix)
	if !ok || !strings.HasPrefix(after, "[") {
		return nil
	}
	list, _, ok := strings.Cut(after[1:], "]")
	if !ok {
		return nil
	}
	var codes []string
	for part := range strings.SplitSeq(list, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}
