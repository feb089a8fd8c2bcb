// Package main is the entry point for the freight-audit CLI.
package main

import (
	"os"

	"freight-audit/cmd/freight-audit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
