// Package version carries build metadata injected with ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/restyaboard/internal/version.Version=v1.0.0"
package version

import "fmt"

var Version = "unknown"

// Build metadata; set alongside Version.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the one-line form printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
