// Package main is the sqlmatch command.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlmatch/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
