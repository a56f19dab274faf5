package fix

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rs/zerolog"

	"github.com/wharflab/cleanslate/internal/annotation"
	"github.com/wharflab/cleanslate/internal/fileval"
	"github.com/wharflab/cleanslate/internal/sourcemap"
	"github.com/wharflab/cleanslate/internal/splitter"
)

// Fixer applies suppression edits to source files.
type Fixer struct {
	// MaxFileSize rejects files larger than this many bytes (0 = unlimited).
	MaxFileSize int64

	// Atomic writes through a temporary file and rename.
	Atomic bool

	// DryRun computes every change but never writes.
	DryRun bool

	// Logger receives per-line warnings and per-file debug output.
	Logger zerolog.Logger

	// Overlay holds content to edit instead of the file on disk, keyed by
	// path. Dry runs use it to chain passes without writing.
	Overlay map[string][]byte
}

// lineEditor rewrites one line. It returns the new text, or ok=false with a
// skip reason when the line must stay as it is.
type lineEditor func(parts splitter.Parts, codes []string) (text string, reason SkipReason, ok bool)

// AddIgnores adds "# type: ignore[...]" annotations. Edits for the same
// line are unioned before the line is touched.
func (f *Fixer) AddIgnores(path string, edits []AddEdit) (*FileChange, error) {
	byLine := make(map[int][]string, len(edits))
	for _, e := range edits {
		byLine[e.Line] = append(byLine[e.Line], e.Codes...)
	}

	return f.editFile(path, byLine, func(parts splitter.Parts, codes []string) (string, SkipReason, bool) {
		text := composeAdd(parts.Code, parts.Comment, codes)
		if text == parts.Code+parts.Comment {
			return "", SkipAlreadySuppressed, false
		}
		return text, 0, true
	})
}

// PruneIgnores removes unused codes from existing annotations. A line whose
// edits include an empty code set loses its whole annotation.
func (f *Fixer) PruneIgnores(path string, edits []PruneEdit) (*FileChange, error) {
	byLine := make(map[int][]string, len(edits))
	removeAll := make(map[int]bool)
	for _, e := range edits {
		if len(e.Codes) == 0 {
			removeAll[e.Line] = true
		}
		byLine[e.Line] = append(byLine[e.Line], e.Codes...)
	}
	for line := range removeAll {
		byLine[line] = nil
	}

	return f.editFile(path, byLine, func(parts splitter.Parts, codes []string) (string, SkipReason, bool) {
		if !parts.HasComment() {
			return "", SkipNoAnnotation, false
		}
		text, found := composePrune(parts.Code, parts.Comment, codes)
		if !found {
			return "", SkipNoAnnotation, false
		}
		if text == parts.Code+parts.Comment {
			return "", SkipCodesAbsent, false
		}
		return text, 0, true
	})
}

// editFile runs edit on every requested line of path, in ascending line
// order, then persists the file once.
func (f *Fixer) editFile(path string, byLine map[int][]string, edit lineEditor) (*FileChange, error) {
	sm, err := f.load(path)
	if err != nil {
		return nil, err
	}

	fc := &FileChange{
		Path:            path,
		OriginalContent: sm.Source(),
	}

	for _, line := range slices.Sorted(maps.Keys(byLine)) {
		if !sm.InRange(line) {
			return nil, &LineOutOfRangeError{Path: path, Line: line, LineCount: sm.LineCount()}
		}
		before := sm.Line(line)

		parts, err := splitter.Split(before)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line+1, err)
		}
		if w := parts.Warning; w != nil {
			fc.Warnings++
			f.Logger.Warn().
				Str("file", path).
				Int("line", line+1).
				Int("column", w.Column).
				Str("reason", w.Reason).
				Msg("could not scan string literals; treating the whole line as code")
		}

		after, reason, ok := edit(parts, annotation.Normalize(byLine[line]))
		if !ok {
			fc.Skipped = append(fc.Skipped, SkippedEdit{Line: line, Reason: reason})
			continue
		}
		if _, err := sm.SetLine(line, after); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		fc.Applied = append(fc.Applied, AppliedEdit{Line: line, Before: before, After: after})
	}

	fc.ModifiedContent = sm.Bytes()
	if !fc.HasChanges() || f.DryRun {
		return fc, nil
	}

	if err := sourcemap.WriteFile(path, fc.ModifiedContent, f.Atomic); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	fc.Written = true
	f.Logger.Debug().
		Str("file", path).
		Int("applied", len(fc.Applied)).
		Int("skipped", len(fc.Skipped)).
		Msg("rewrote file")
	return fc, nil
}

// load validates and reads path, preferring the overlay when it has an entry.
func (f *Fixer) load(path string) (*sourcemap.SourceMap, error) {
	if content, ok := f.Overlay[path]; ok {
		return sourcemap.New(content), nil
	}
	if err := fileval.CheckFile(path, f.MaxFileSize); err != nil {
		return nil, err
	}
	sm, err := sourcemap.Read(path)
	if err != nil {
		return nil, err
	}
	if err := fileval.CheckContent(path, sm.Source()); err != nil {
		return nil, err
	}
	return sm, nil
}
