// Package version exposes build/VCS metadata for the marfd binary,
// following go-ethereum's internal/version package.
package version

import (
	"runtime/debug"
	"time"
)

// VCSInfo is the subset of Go's embedded build info this binary reports.
type VCSInfo struct {
	Commit string
	Date   string
	Dirty  bool
}

// VCS reads the VCS stamp embedded by the Go toolchain at build time, if
// any (absent for `go run` or binaries built without module info).
func VCS() (VCSInfo, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return VCSInfo{}, false
	}
	var vcs VCSInfo
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcs.Commit = setting.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				vcs.Date = t.Format("20060102")
			}
		case "vcs.modified":
			vcs.Dirty = setting.Value == "true"
		}
	}
	return vcs, vcs.Commit != ""
}

// Describe formats baseVersion with the embedded commit/date, when
// available, the way cmd/marfd reports --version.
func Describe(baseVersion string) string {
	vcs, ok := VCS()
	if !ok {
		return baseVersion
	}
	commit := vcs.Commit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	s := baseVersion + "-" + commit
	if vcs.Date != "" {
		s += "-" + vcs.Date
	}
	if vcs.Dirty {
		s += "-dirty"
	}
	return s
}
