// Package version holds build-time identity for the smlcheck CLI.
// These variables can be overridden at build time via -ldflags.
package version

import "strings"

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// VersionString renders a one-line summary for cobra's rootCmd.Version.
func VersionString() string {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	if GitCommit == "" {
		return v
	}
	return v + " (" + strings.TrimSpace(GitCommit) + ")"
}
