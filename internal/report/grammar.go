package report

import (
	"errors"
	"strconv"
	"strings"
)

// entry holds the named fields of one report line:
//
//	path ":" line ":" [column ":" [end-line ":" end-column ":"]] " " severity ":" " " message ["  [" code "]"]
//	path ":" " " "note" ":" " " message
type entry struct {
	path      string
	line      int // 1-based, as reported; 0 for a context note
	positions []int
	severity  string
	message   string
	code      string
}

// column returns the reported column, or 0 when absent.
func (e entry) column() int {
	if len(e.positions) == 0 {
		return 0
	}
	return e.positions[0]
}

var (
	errNoLocation   = errors.New("missing path:line prefix")
	errBadLine      = errors.New("line number must be positive")
	errLineRange    = errors.New("line number out of range")
	errNoSeverity   = errors.New("missing severity")
	errEmptyMessage = errors.New("empty message")
)

// scanner walks a line left to right, one grammar field at a time.
type scanner struct {
	src string
	pos int
}

// scanEntry splits text into its named fields.
func scanEntry(text string) (entry, error) {
	s := &scanner{src: text}
	var e entry

	path, ok := s.path()
	if !ok {
		return scanContextNote(text)
	}
	e.path = path

	// path() guarantees digits followed by ':' here, so only an overflow
	// fails.
	if e.line, ok = s.number(); !ok {
		return entry{}, errLineRange
	}
	s.pos++
	if e.line < 1 {
		return entry{}, errBadLine
	}

	for {
		n, ok := s.numberField()
		if !ok {
			break
		}
		e.positions = append(e.positions, n)
	}

	s.skipSpaces()
	severity, ok := s.word()
	if !ok || !s.consume(':') {
		return entry{}, errNoSeverity
	}
	e.severity = severity
	s.skipSpaces()

	e.message, e.code = splitCode(s.rest())
	if e.message == "" && e.code == "" {
		return entry{}, errEmptyMessage
	}
	return e, nil
}

// scanContextNote accepts the location-less note mypy prints with
// show_error_context, e.g. `a.py: note: In function "f":`. Any other
// severity without a line number is rejected.
func scanContextNote(text string) (entry, error) {
	for i := 1; i+1 < len(text); i++ {
		if text[i] != ':' || text[i+1] != ' ' {
			continue
		}
		s := &scanner{src: text, pos: i + 2}
		severity, ok := s.word()
		if !ok || !s.consume(':') {
			continue
		}
		if severity != severityNote {
			return entry{}, errNoLocation
		}
		s.skipSpaces()
		message := strings.TrimRight(s.rest(), " \t")
		if message == "" {
			return entry{}, errEmptyMessage
		}
		return entry{path: text[:i], severity: severity, message: message}, nil
	}
	return entry{}, errNoLocation
}

// path consumes up to the first ':' that is followed by a line number
// field ("<digits>:"). Earlier colons, such as a Windows drive letter,
// stay part of the path.
func (s *scanner) path() (string, bool) {
	for i := s.pos; i < len(s.src); i++ {
		if s.src[i] != ':' || i == s.pos {
			continue
		}
		j := i + 1
		for j < len(s.src) && isDigit(s.src[j]) {
			j++
		}
		if j > i+1 && j < len(s.src) && s.src[j] == ':' {
			path := s.src[s.pos:i]
			s.pos = i + 1
			return path, true
		}
	}
	return "", false
}

// number consumes a run of digits.
func (s *scanner) number() (int, bool) {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(s.src[start:s.pos])
	if err != nil {
		s.pos = start
		return 0, false
	}
	return n, true
}

// numberField consumes "<digits>:" or nothing.
func (s *scanner) numberField() (int, bool) {
	start := s.pos
	n, ok := s.number()
	if !ok || !s.consume(':') {
		s.pos = start
		return 0, false
	}
	return n, true
}

// word consumes a run of ASCII letters.
func (s *scanner) word() (string, bool) {
	start := s.pos
	for s.pos < len(s.src) && isLetter(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos], s.pos > start
}

func (s *scanner) consume(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

func (s *scanner) skipSpaces() {
	for s.pos < len(s.src) && s.src[s.pos] == ' ' {
		s.pos++
	}
}

func (s *scanner) rest() string {
	return s.src[s.pos:]
}

// splitCode separates a trailing "[code]" from the message. The code must
// be preceded by whitespace and consist of code characters only, so a
// message that merely ends in a type such as "List[int]" keeps its text.
func splitCode(msg string) (message, code string) {
	msg = strings.TrimRight(msg, " \t")
	if !strings.HasSuffix(msg, "]") {
		return msg, ""
	}
	open := strings.LastIndexByte(msg, '[')
	if open <= 0 || (msg[open-1] != ' ' && msg[open-1] != '\t') {
		return msg, ""
	}
	candidate := msg[open+1 : len(msg)-1]
	if candidate == "" || strings.IndexFunc(candidate, func(r rune) bool { return !isCodeRune(r) }) >= 0 {
		return msg, ""
	}
	return strings.TrimRight(msg[:open], " \t"), candidate
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isCodeRune(r rune) bool {
	return r == '-' || r == '_' || (r < 128 && (isLetter(byte(r)) || isDigit(byte(r))))
}
