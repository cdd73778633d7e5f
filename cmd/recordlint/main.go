// Package main provides the CLI for recordlint, a schema-aware analyzer for
// Active Record models.
package main

import (
	"os"

	"github.com/leapstack-labs/recordlint/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
