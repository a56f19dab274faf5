// Package testutil provides test helpers for source rewriting tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree creates files under dir. Keys are slash-separated relative
// paths; parent directories are created as needed.
func WriteTree(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			tb.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // test fixture
			tb.Fatalf("write %s: %v", rel, err)
		}
	}
}

// ReadFile returns the content of path as a string, failing the test on error.
func ReadFile(tb testing.TB, path string) string {
	tb.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
