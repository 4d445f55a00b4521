// Command opsrecall is the CLI entry point for the local retrieval and
// pattern-mining engine.
package main

import (
	"os"

	"github.com/fathomlabs/opsrecall/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
