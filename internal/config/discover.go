package config

import (
	"os"
	"path/filepath"

	gotoml "github.com/pelletier/go-toml/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
// pyproject.toml only counts when it has a [tool.cleanslate] table.
var ConfigFileNames = []string{".cleanslate.toml", "cleanslate.toml", pyProjectName}

const (
	pyProjectName    = "pyproject.toml"
	pyProjectSection = "tool.cleanslate"
)

// Discover finds the closest config file for a target path.
// It walks up the directory tree starting at the target itself when it is a
// directory, or at its parent otherwise.
// Returns empty string if no config file is found.
func Discover(targetPath string) string {
	// Get absolute path to handle relative paths correctly
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}

	dir := absPath
	if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		// Check each config file name in priority order
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if !fileExists(configPath) {
				continue
			}
			if name == pyProjectName && !hasToolSection(configPath) {
				continue
			}
			return configPath
		}

		// Move up to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

func isPyProject(path string) bool {
	return filepath.Base(path) == pyProjectName
}

// hasToolSection reports whether a pyproject.toml has a [tool.cleanslate] table.
func hasToolSection(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var doc struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := gotoml.Unmarshal(data, &doc); err != nil {
		return false
	}
	_, ok := doc.Tool["cleanslate"]
	return ok
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
