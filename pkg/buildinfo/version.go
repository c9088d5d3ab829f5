// Package buildinfo holds the release metadata that wavetower prints for
// --version and reports from the render service's /healthz endpoint.
//
// Release builds stamp it with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/wavetower/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/wavetower/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/wavetower/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, or "dev" for local builds.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Fields returns the metadata keyed the way the render service reports it.
func Fields() map[string]string {
	return map[string]string{"version": Version, "commit": Commit, "built": Date}
}

// Template is the --version output of the wavetower root command.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
