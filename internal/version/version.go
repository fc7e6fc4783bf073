// Package version exposes build metadata stamped in by the linker:
//
//	go build -ldflags "-X github.com/dkoosis/cargo2junit/internal/version.Version=v1.2.3"
package version

import "fmt"

// These variables are populated by the Go linker (LDFLAGS) at build time.
var (
	Version    = "dev"     // Default value if not built with LDFLAGS
	CommitHash = "unknown" // Default value
	BuildDate  = "unknown" // Default value
)

// String formats the build metadata for --version.
func String() string {
	return fmt.Sprintf("cargo2junit %s (commit %s, built %s)", Version, CommitHash, BuildDate)
}
