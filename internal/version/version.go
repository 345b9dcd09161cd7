// Package version reports build information for startpage
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/iiroan/startpage/internal/version.Version=..."
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info holds version information for a build
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	Dirty     bool      `json:"dirty,omitempty"`
	BuildDate time.Time `json:"build_date,omitempty"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
}

// Current resolves build information from linker flags, falling back to the module build info
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if t, err := time.Parse(time.RFC3339, Date); err == nil {
		info.BuildDate = t
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return fromBuildInfo(info, bi)
}

func fromBuildInfo(info Info, bi *debug.BuildInfo) Info {
	if (info.Version == "" || info.Version == "dev") && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// ShortCommit returns the first 7 characters of the commit
func (v Info) ShortCommit() string {
	if len(v.Commit) > 7 {
		return v.Commit[:7]
	}
	return v.Commit
}

// String renders a one-line description
func (v Info) String() string {
	var b strings.Builder
	b.WriteString(v.Version)
	if c := v.ShortCommit(); c != "" {
		b.WriteString(" (" + c)
		if v.Dirty {
			b.WriteString("-dirty")
		}
		b.WriteString(")")
	}
	if !v.BuildDate.IsZero() {
		fmt.Fprintf(&b, " built %s", v.BuildDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, " %s %s", v.GoVersion, v.Platform)
	return b.String()
}

// Labels returns key-value pairs suitable for structured logs
func (v Info) Labels() map[string]string {
	labels := map[string]string{
		"version":  v.Version,
		"go":       v.GoVersion,
		"platform": v.Platform,
	}
	if v.Commit != "" {
		labels["commit"] = v.ShortCommit()
	}
	return labels
}
