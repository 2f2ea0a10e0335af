package main

import (
	"os"

	"github.com/fathom-labs/fathom-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
