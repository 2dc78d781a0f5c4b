package main

import (
	"os"

	"canvasboard/internal/cli"
)

// Set via -ldflags "-X main.version=...".
var version string

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
