// Package fileval provides the checks a source file must pass before it is
// rewritten: it must be a regular file, within the configured size limit,
// and valid UTF-8 text.
package fileval

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// NotRegularFileError is returned for directories, devices and the like.
type NotRegularFileError struct {
	Path string
	Mode os.FileMode
}

func (e *NotRegularFileError) Error() string {
	return fmt.Sprintf("%s is not a regular file (mode %s)", e.Path, e.Mode)
}

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"%s is too large (%d > %d bytes); raise [edit] max-file-size to override",
		e.Path, e.Size, e.MaxSize,
	)
}

// NotUTF8Error is returned when a file is not valid UTF-8 text.
type NotUTF8Error struct {
	Path string
	// Offset is the byte offset of the first invalid sequence.
	Offset int
}

func (e *NotUTF8Error) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8 text (invalid byte at offset %d)", e.Path, e.Offset)
}

// CheckFile runs the pre-read checks on path:
//  1. The path must name a regular file (symlinks are followed)
//  2. Its size must not exceed maxSize (when maxSize > 0)
func CheckFile(path string, maxSize int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return &NotRegularFileError{Path: path, Mode: info.Mode()}
	}

	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	return nil
}

// CheckContent verifies that content read from path is valid UTF-8.
func CheckContent(path string, content []byte) error {
	if utf8.Valid(content) {
		return nil
	}
	return &NotUTF8Error{Path: path, Offset: firstInvalid(content)}
}

func firstInvalid(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(content)
}
