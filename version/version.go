// Package version exists solely so that we can store the version of this
// application in one location.
package version

import "fmt"

var (
	// version is populated with our release tag at build time, via
	// -ldflags "-X github.com/skx/cpmz80/version.version=..."
	version = "unreleased"
)

// GetVersionBanner returns a banner which is suitable for printing, to show our name,
// version, and homepage link.
func GetVersionBanner() string {
	return fmt.Sprintf("cpmz80 %s\n%s\n", version, "https://github.com/skx/cpmz80/")
}

// GetVersionString returns our version number as a string.
func GetVersionString() string {
	return version
}
