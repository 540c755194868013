// Package main is the ashborn command line entry point.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/ashborn/internal/cli"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ashborn:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
