// Package version holds psnap build information. Version, BuildDate and
// GitCommit are set via ldflags at build time:
//
//	go build -ldflags "-X github.com/jongio/psnap/version.Version=1.0.0" ./cmd/psnap
package version

import "fmt"

// Set via ldflags.
var (
	Version   = "0.0.0-dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info holds version information for a binary.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
	Name      string `json:"name"`
}

// New creates an Info for name from the ldflags-provided values.
func New(name string) *Info {
	return &Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		Name:      name,
	}
}

// String returns a human-readable version string.
func (i *Info) String() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s)", i.Name, i.Version, i.GitCommit, i.BuildDate)
}

// LogAttrs returns the build information as slog key-value pairs.
func (i *Info) LogAttrs() []any {
	return []any{"version", i.Version, "commit", i.GitCommit, "built", i.BuildDate}
}
