// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X pcb-editor/internal/version.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String formats the build information for the version command.
func String() string {
	return fmt.Sprintf("pcbedit %s (commit: %s, built: %s)", Version, GitCommit, BuildTime)
}
