// Package version holds the build version, set with -ldflags at release time.
package version

import "fmt"

var Version = "0.1.0"
var BuildDate = "2026-10-14"

func GetVersion() string {
	return Version
}

func GetBuildDate() string {
	return BuildDate
}

// String returns the version line printed by the CLI.
func String() string {
	return fmt.Sprintf("sheetdiff %s (built %s)", Version, BuildDate)
}
