// Package sourcemap holds a source file as an ordered, mutable sequence of
// lines for the duration of one edit batch.
//
// Lines are split on \n. A trailing \r (CRLF files) is held aside per line
// and restored on output, so editing a line's suffix never lands after the
// carriage return.
package sourcemap

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// SourceMap provides indexed access to the lines of one file.
//
// All line numbers are 0-based. A SourceMap is owned by a single edit
// batch and is not safe for concurrent use.
type SourceMap struct {
	// source is the raw content the map was built from.
	source []byte

	// lines are the individual lines without line endings.
	lines []string

	// crlf[i] is true when line i ended with \r\n.
	crlf []bool
}

// New creates a SourceMap from source content.
func New(source []byte) *SourceMap {
	rawLines := strings.Split(string(source), "\n")
	sm := &SourceMap{
		source: source,
		lines:  make([]string, len(rawLines)),
		crlf:   make([]bool, len(rawLines)),
	}
	for i, line := range rawLines {
		trimmed, hadCR := strings.CutSuffix(line, "\r")
		sm.lines[i] = trimmed
		sm.crlf[i] = hadCR
	}
	return sm
}

// Read loads the file at path into a SourceMap.
func Read(path string) (*SourceMap, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(content), nil
}

// Lines returns all lines (without line endings).
// The returned slice should not be modified.
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// InRange reports whether line is a valid 0-based index.
func (sm *SourceMap) InRange(line int) bool {
	return line >= 0 && line < len(sm.lines)
}

// Line returns the text of a specific line (0-based).
// Returns empty string if line is out of range.
func (sm *SourceMap) Line(line int) string {
	if !sm.InRange(line) {
		return ""
	}
	return sm.lines[line]
}

// SetLine replaces the text of a line. It reports whether the text changed.
func (sm *SourceMap) SetLine(line int, text string) (bool, error) {
	if !sm.InRange(line) {
		return false, fmt.Errorf("line %d out of range (file has %d lines)", line+1, len(sm.lines))
	}
	if strings.ContainsAny(text, "\n") {
		return false, fmt.Errorf("replacement for line %d spans multiple lines", line+1)
	}
	if sm.lines[line] == text {
		return false, nil
	}
	sm.lines[line] = text
	return true, nil
}

// Source returns the raw content the map was built from.
// The returned slice should not be modified.
func (sm *SourceMap) Source() []byte {
	return sm.source
}

// Bytes joins the current lines with \n, restoring per-line \r.
func (sm *SourceMap) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(len(sm.source) + 64)
	for i, line := range sm.lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(line)
		if sm.crlf[i] {
			buf.WriteByte('\r')
		}
	}
	return buf.Bytes()
}

// Changed reports whether the current content differs from the source.
func (sm *SourceMap) Changed() bool {
	return !bytes.Equal(sm.source, sm.Bytes())
}
