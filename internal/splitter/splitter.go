// Package splitter separates a single line of Python source into its code
// portion and its trailing end-of-line comment.
//
// The lexer only knows about string literal boundaries (single, double and
// triple quotes, backslash escapes). That is enough to tell a real comment
// start from a '#' inside a literal without a full tokenizer, and it never
// needs context from neighbouring lines.
package splitter

import (
	"fmt"
	"strings"
)

// Parts is the result of splitting a line.
type Parts struct {
	// Code is everything before the comment start, unmodified (trailing
	// whitespace included).
	Code string

	// Comment is the '#' marker and everything after it, unmodified.
	// Empty when the line has no comment.
	Comment string

	// Warning is set when the line could not be fully scanned. In that case
	// Code holds the whole line and Comment is empty.
	Warning *TokenizationWarning
}

// HasComment reports whether a comment was found.
func (p Parts) HasComment() bool {
	return p.Comment != ""
}

// MalformedLineError is returned when a line carries more than one
// independent comment region.
type MalformedLineError struct {
	Line     string
	Comments int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("expected a single comment region, found %d in line %q", e.Comments, e.Line)
}

// TokenizationWarning describes a line whose literals could not be scanned.
// It is not fatal: the line is treated as code without a comment.
type TokenizationWarning struct {
	Line   string
	Column int
	Reason string
}

func (w *TokenizationWarning) Error() string {
	return fmt.Sprintf("column %d: %s", w.Column, w.Reason)
}

// Split breaks line into its code and comment parts.
//
// A bare carriage return inside the line starts a new logical line; if more
// than one logical line has a comment, Split returns a *MalformedLineError.
func Split(line string) (Parts, error) {
	if !strings.Contains(line, "#") {
		return Parts{Code: line}, nil
	}

	starts, warn := scan(line)
	if warn != nil {
		return Parts{Code: line, Warning: warn}, nil
	}

	switch len(starts) {
	case 0:
		return Parts{Code: line}, nil
	case 1:
		return Parts{Code: line[:starts[0]], Comment: line[starts[0]:]}, nil
	default:
		return Parts{}, &MalformedLineError{Line: line, Comments: len(starts)}
	}
}

// scan returns the byte offsets of every comment start in line.
// All delimiters are ASCII so scanning bytes is safe for UTF-8 input.
func scan(line string) ([]int, *TokenizationWarning) {
	var (
		starts    []int
		inComment bool
		inString  bool
		quote     byte
		triple    bool
		openedAt  int
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case inComment:
			if c == '\r' {
				inComment = false
			}

		case inString:
			switch {
			case c == '\\':
				i++
			case triple:
				if strings.HasPrefix(line[i:], strings.Repeat(string(quote), 3)) {
					inString = false
					i += 2
				}
			case c == quote:
				inString = false
			case c == '\r':
				return nil, &TokenizationWarning{
					Line:   line,
					Column: openedAt,
					Reason: "unterminated string literal",
				}
			}

		case c == '#':
			starts = append(starts, i)
			inComment = true

		case c == '\'' || c == '"':
			inString = true
			quote = c
			openedAt = i
			triple = strings.HasPrefix(line[i:], strings.Repeat(string(c), 3))
			if triple {
				i += 2
			}
		}
	}

	if inString {
		reason := "unterminated string literal"
		if triple {
			reason = "triple-quoted string continues past end of line"
		}
		return nil, &TokenizationWarning{Line: line, Column: openedAt, Reason: reason}
	}

	return starts, nil
}
