package version

import (
	"os/exec"
	"runtime"
	"runtime/debug"
	"slices"
	"strings"
)

var version = "dev"

// Version returns the current version string.
func Version() string {
	return version
}

// GoVersion returns the Go toolchain version used for the build.
func GoVersion() string {
	return runtime.Version()
}

// gitCommit returns the abbreviated VCS revision from build info.
func gitCommit() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	idx := slices.IndexFunc(info.Settings, func(s debug.BuildSetting) bool {
		return s.Key == "vcs.revision"
	})
	if idx < 0 {
		return ""
	}
	val := info.Settings[idx].Value
	if len(val) > 12 {
		return val[:12]
	}
	return val
}

// MypyVersion asks the checker for its version, e.g. "mypy 1.13.0
// (compiled: yes)". It returns "" when the checker cannot be run.
func MypyVersion(command []string) string {
	if len(command) == 0 {
		return ""
	}
	argv := append(slices.Clone(command[1:]), "--version")
	out, err := exec.Command(command[0], argv...).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Info holds structured version information for machine-readable output.
type Info struct {
	Version     string   `json:"version"`
	MypyVersion string   `json:"mypyVersion,omitempty"`
	Platform    Platform `json:"platform"`
	GoVersion   string   `json:"goVersion"`
	GitCommit   string   `json:"gitCommit,omitempty"`
}

// Platform describes the OS and architecture.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// GetInfo returns structured version information. mypyCommand is asked
// for the checker version; nil skips the query.
func GetInfo(mypyCommand []string) Info {
	return Info{
		Version:     Version(),
		MypyVersion: MypyVersion(mypyCommand),
		Platform: Platform{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
		GoVersion: GoVersion(),
		GitCommit: gitCommit(),
	}
}
