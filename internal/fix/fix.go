// Package fix rewrites source files to add or prune mypy suppression
// annotations.
//
// Each call edits exactly one file: the file is read once into a
// sourcemap, every requested line is rewritten in memory in ascending line
// order, and the result is written back once. Edits only ever touch the
// comment suffix of a line, so line indices never shift.
package fix

import (
	"bytes"
	"fmt"
)

// AddEdit asks for codes to be suppressed on one line.
type AddEdit struct {
	// Line is the 0-based line index.
	Line int
	// Codes are the error codes to add to the line's annotation.
	Codes []string
}

// PruneEdit asks for unused codes to be removed from one line.
type PruneEdit struct {
	// Line is the 0-based line index.
	Line int
	// Codes are the unused codes. Empty removes the whole annotation.
	Codes []string
}

// AppliedEdit records a line that was rewritten.
type AppliedEdit struct {
	// Line is the 0-based line index.
	Line int

	// Before and After are the line text around the edit.
	Before string
	After  string
}

// SkipReason explains why a requested edit left its line untouched.
type SkipReason int

const (
	// SkipAlreadySuppressed means the line already carried every code.
	SkipAlreadySuppressed SkipReason = iota

	// SkipNoAnnotation means a prune target had no annotation to prune.
	SkipNoAnnotation

	// SkipCodesAbsent means none of the unused codes were on the line.
	SkipCodesAbsent
)

// String returns a human-readable description of the skip reason.
func (r SkipReason) String() string {
	switch r {
	case SkipAlreadySuppressed:
		return "already suppressed"
	case SkipNoAnnotation:
		return "no type: ignore annotation on line"
	case SkipCodesAbsent:
		return "unused codes not present in annotation"
	default:
		return "unknown reason"
	}
}

// SkippedEdit records a requested edit that changed nothing.
type SkippedEdit struct {
	// Line is the 0-based line index.
	Line int

	// Reason explains why nothing changed.
	Reason SkipReason
}

// FileChange describes the outcome of one edit batch on one file.
type FileChange struct {
	// Path is the file path.
	Path string

	// Applied lists rewritten lines in ascending order.
	Applied []AppliedEdit

	// Skipped lists requested edits that changed nothing.
	Skipped []SkippedEdit

	// Warnings counts lines whose literals could not be scanned.
	Warnings int

	// OriginalContent is the file content before the batch.
	OriginalContent []byte

	// ModifiedContent is the file content after the batch.
	ModifiedContent []byte

	// Written is true when ModifiedContent was persisted to disk.
	Written bool
}

// HasChanges returns true if the batch changed the file content.
func (fc *FileChange) HasChanges() bool {
	return !bytes.Equal(fc.OriginalContent, fc.ModifiedContent)
}

// LineOutOfRangeError is returned when an edit targets a line the file
// does not have, which means the report is stale or names another file.
type LineOutOfRangeError struct {
	Path      string
	Line      int
	LineCount int
}

func (e *LineOutOfRangeError) Error() string {
	return fmt.Sprintf("%s: line %d out of range (file has %d lines); is the report stale?",
		e.Path, e.Line+1, e.LineCount)
}
