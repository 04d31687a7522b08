// Package main is the entry point for the lounas CLI.
package main

import (
	"os"

	"github.com/jmylchreest/lounas/cmd/lounas/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
