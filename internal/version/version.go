// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"io"
)

var (
	App       = "strava-relay"
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	BuildOS   string
	BuildArch string
)

// Fprint writes the version information to w, skipping unset fields.
func Fprint(w io.Writer) {
	fmt.Fprintf(w, "%s version %s\n", App, String())
	if GitCommit != "" {
		fmt.Fprintf(w, "Git commit: %s\n", shortCommit())
	}
	if BuildTime != "" {
		fmt.Fprintf(w, "Build time: %s\n", BuildTime)
	}
	if GoVersion != "" {
		fmt.Fprintf(w, "Go version: %s\n", GoVersion)
	}
	if BuildOS != "" && BuildArch != "" {
		fmt.Fprintf(w, "Built for: %s/%s\n", BuildOS, BuildArch)
	}
}

// String returns the release version, or "dev" for local builds.
func String() string {
	if Version != "" {
		return Version
	}
	return "dev"
}

func shortCommit() string {
	if len(GitCommit) > 7 {
		return GitCommit[:7]
	}
	return GitCommit
}
