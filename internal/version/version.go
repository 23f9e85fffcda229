// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

// Version is the release version embedded in the binary.
// It can be overridden at build time via:
// go build -ldflags "-X github.com/oukeidos/wordlens/internal/version.Version=0.1.0"
var Version = "0.1.0"

// Commit can be overridden with -X .../internal/version.Commit=abcdef1.
var Commit = "unknown"

// BuildDate is the RFC3339 build timestamp.
var BuildDate = "unknown"

// Info returns a multi-line version string for CLI output.
func Info() string {
	return fmt.Sprintf("wordlens %s\ncommit: %s\nbuild: %s", Version, Commit, BuildDate)
}

