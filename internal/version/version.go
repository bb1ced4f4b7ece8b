// Package version provides build-time version information.
package version

import "fmt"

// These variables are set at build time via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Template returns the cobra version template for the named program.
func Template(program string) string {
	return fmt.Sprintf("%s version {{.Version}} (commit: %s, built: %s)\n", program, Commit, Date)
}
