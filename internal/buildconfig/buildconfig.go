package buildconfig

import (
	"runtime/debug"
	"sync"
)

// Set with -ldflags "-X github.com/Harshitk-cp/sitefleet/internal/buildconfig.version=..."
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = ""
)

var (
	resolveOnce sync.Once
	resolved    Info
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
}

// Get returns the ldflags values, filling gaps from the module build info embedded by the go tool.
func Get() Info {
	resolveOnce.Do(func() {
		resolved = resolve(version, commit, buildTime, debug.ReadBuildInfo)
	})
	return resolved
}

func resolve(v, c, t string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: v, Commit: c, BuildTime: t}
	bi, ok := read()
	if !ok || bi == nil {
		return info
	}
	info.GoVersion = bi.GoVersion
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func Version() string {
	return Get().Version
}

func Commit() string {
	return Get().Commit
}

// VersionInfo returns the non-empty Info fields keyed by their JSON names.
func VersionInfo() map[string]string {
	i := Get()
	out := map[string]string{
		"version": i.Version,
		"commit":  i.Commit,
	}
	if i.BuildTime != "" {
		out["build_time"] = i.BuildTime
	}
	if i.GoVersion != "" {
		out["go_version"] = i.GoVersion
	}
	return out
}
