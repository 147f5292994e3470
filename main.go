// Package main provides the entry point for the pcbedit command.
package main

import (
	"os"

	"pcb-editor/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
