// alinfo CLI - Command-line client for the ALINFO portal
package main

import "github.com/seanmeissimilly/alinfo/pkg/cli"

// Build-time variables set via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cli.Version, cli.Commit, cli.BuildDate = Version, Commit, BuildDate
	cli.Execute()
}
