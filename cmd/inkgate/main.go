// Command inkgate is the operator CLI and daemon for the in-app message gate.
package main

import (
	"os"

	"github.com/runnerr0/inkgate/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
