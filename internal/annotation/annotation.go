// Package annotation finds, renders, merges and prunes mypy suppression
// annotations ("# type: ignore[code, ...]") inside a comment string.
package annotation

import (
	"slices"
	"strings"
)

// Annotation locates a suppression annotation within a comment.
type Annotation struct {
	// Start is the byte offset of the '#' that opens the annotation.
	Start int
	// End is the byte offset just past "ignore" or the closing ']'.
	End int
	// Codes are the codes listed in brackets, in written order.
	// Empty for a bare "# type: ignore".
	Codes []string
}

// Bare reports whether the annotation lists no codes.
func (a Annotation) Bare() bool {
	return len(a.Codes) == 0
}

// Find returns the first suppression annotation in comment.
//
// The accepted shape follows mypy: '#', optional whitespace, "type:",
// optional whitespace, "ignore", an optional bracketed code list, then only
// whitespace up to the end of the comment or the next '#'.
func Find(comment string) (Annotation, bool) {
	for i := 0; i < len(comment); i++ {
		if comment[i] != '#' {
			continue
		}
		if a, ok := matchAt(comment, i); ok {
			return a, true
		}
	}
	return Annotation{}, false
}

func matchAt(s string, start int) (Annotation, bool) {
	i := skipSpace(s, start+1)
	if !strings.HasPrefix(s[i:], "type:") {
		return Annotation{}, false
	}
	i = skipSpace(s, i+len("type:"))
	if !strings.HasPrefix(s[i:], "ignore") {
		return Annotation{}, false
	}
	i += len("ignore")
	end := i

	var codes []string
	if j := skipSpace(s, i); j < len(s) && s[j] == '[' {
		closeIdx := strings.IndexByte(s[j:], ']')
		if closeIdx < 0 {
			return Annotation{}, false
		}
		codes = parseCodes(s[j+1 : j+closeIdx])
		end = j + closeIdx + 1
	}

	// Only whitespace may follow, up to the end or another comment.
	if k := skipSpace(s, end); k < len(s) && s[k] != '#' {
		return Annotation{}, false
	}

	return Annotation{Start: start, End: end, Codes: codes}, true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func parseCodes(list string) []string {
	var codes []string
	for part := range strings.SplitSeq(list, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// Normalize returns codes sorted ascending with duplicates and blanks removed.
// The input slice is not modified.
func Normalize(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Render formats an annotation for codes. An empty set renders the bare form.
func Render(codes []string) string {
	codes = Normalize(codes)
	if len(codes) == 0 {
		return "# type: ignore"
	}
	return "# type: ignore[" + strings.Join(codes, ", ") + "]"
}

// Merge combines codes with any annotation already present in existing.
// It returns the rendered annotation and the residual comment text that is
// not part of the old annotation. Without an existing annotation the
// residual is existing unchanged.
func Merge(existing string, codes []string) (rendered, residual string) {
	a, ok := Find(existing)
	if !ok {
		return Render(codes), existing
	}
	merged := slices.Concat(a.Codes, codes)
	return Render(merged), Residual(existing, a)
}

// Residual returns comment with the annotation cut out and the remaining
// pieces joined by a single space.
func Residual(comment string, a Annotation) string {
	before := strings.TrimSpace(comment[:a.Start])
	after := strings.TrimSpace(comment[a.End:])
	switch {
	case before == "":
		return after
	case after == "":
		return before
	default:
		return before + " " + after
	}
}

// Prune removes unused codes from the annotation in comment. An empty
// unused set removes the whole annotation. When codes remain, the
// annotation is re-rendered in place and the rest of the comment is kept
// byte for byte; otherwise the residual comment is returned.
//
// found is false when comment has no annotation, in which case comment is
// returned unchanged.
func Prune(comment string, unused []string) (pruned string, found bool) {
	a, ok := Find(comment)
	if !ok {
		return comment, false
	}

	var remaining []string
	if len(unused) > 0 {
		drop := Normalize(unused)
		for _, code := range a.Codes {
			if _, hit := slices.BinarySearch(drop, code); !hit {
				remaining = append(remaining, code)
			}
		}
		if !a.Bare() && len(remaining) == len(a.Codes) {
			return comment, true
		}
	}

	if len(remaining) == 0 {
		return Residual(comment, a), true
	}
	return comment[:a.Start] + Render(remaining) + comment[a.End:], true
}
