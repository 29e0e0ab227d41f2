// Package version holds build metadata stamped via ldflags.
package version

// Overridden at build time with
// -ldflags "-X github.com/raglab/morgana/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
