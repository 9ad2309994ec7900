// Package main is the entry point for the attrstrip CLI.
package main

import (
	"os"

	"github.com/jmylchreest/attrstrip/cmd/attrstrip/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
