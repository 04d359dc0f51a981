// Package main provides the CLI for the LeapDB flat-file database.
package main

import (
	"context"
	"os"

	"github.com/leapstack-labs/leapdb/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
