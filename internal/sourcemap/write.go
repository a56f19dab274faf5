package sourcemap

import (
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// WriteFile replaces the file at path with data, keeping its permissions.
//
// With atomic set, data is written to a temporary file in the same
// directory and renamed over the target, so an interrupted write never
// leaves a truncated file behind. Symlinks are resolved first so the link
// itself survives.
func WriteFile(path string, data []byte, atomic bool) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()

	if !atomic {
		return os.WriteFile(target, data, mode)
	}
	return atomicwriter.WriteFile(target, data, mode)
}
