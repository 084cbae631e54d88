// Package build provides version and build information for contractkit.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// GeneratorVersion is the version stamped into generated file headers.
// Development builds stamp "dev" so that regenerating with an unreleased
// binary still produces stable bytes.
func GeneratorVersion() string {
	return Version
}
