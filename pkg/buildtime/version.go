package buildtime

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

//go:embed revision
var revision string

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
}

// version string when this predictd has been built.
func VERSION() string {
	return version
}

// revision the build was cut from. The release tooling overwrites the
// embedded file; out of a release build this reads "unknown".
func GIT_REVISION() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
