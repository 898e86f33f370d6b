// Package version reports build information for fdk binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Set at build time via ldflags, e.g.
//
//	go build -ldflags "-X fdk/internal/version.Version=1.2.0 \
//	    -X fdk/internal/version.Commit=4f9c1d2 \
//	    -X fdk/internal/version.BuildTime=2025-06-01T12:00:00Z"
//
// Without ldflags, Commit and BuildTime fall back to the VCS stamp Go
// embeds in module builds.
var (
	Version   = "0.1.0-dev"
	Commit    = ""
	BuildTime = ""
)

// Info is the resolved build description.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit"`
	BuildTime time.Time `json:"build_time"`
	GoVersion string    `json:"go_version"`
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`
}

// Get resolves the build information for the running binary.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildTime = t
	}

	if info.Commit == "" || info.BuildTime.IsZero() {
		fillFromBuildInfo(&info)
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

// fillFromBuildInfo completes missing fields from the embedded VCS
// settings, when present.
func fillFromBuildInfo(info *Info) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.BuildTime.IsZero() {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildTime = t
				}
			}
		}
	}
}

// String renders "version (shortcommit)" for banners and logs.
func (i Info) String() string {
	if len(i.Commit) > 7 {
		return fmt.Sprintf("%s (%s)", i.Version, i.Commit[:7])
	}
	return i.Version
}

// Full renders the multi-line description shown by the version command.
func (i Info) Full() string {
	built := "unknown"
	if !i.BuildTime.IsZero() {
		built = i.BuildTime.Format(time.RFC3339)
	}
	return fmt.Sprintf("Version: %s\nCommit: %s\nBuild Time: %s\nGo Version: %s\nOS/Arch: %s/%s",
		i.Version, i.Commit, built, i.GoVersion, i.OS, i.Arch)
}
