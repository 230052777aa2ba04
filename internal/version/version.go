// Package version provides version information for argosctl.
package version

import "fmt"

// Version is the version of argosctl. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
func String() string {
	if Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}

// UserAgent is sent with every request to the Argos server.
func UserAgent() string {
	return fmt.Sprintf("argosctl/%s", String())
}
