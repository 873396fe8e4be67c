// Package main is the entry point for marketplace-cli, a command-line client
// for the marketplace backend.
package main

import (
	"fmt"
	"os"

	"github.com/jamesprial/marketplace-mcp/cmd/marketplace-cli/internal/commands"
	"github.com/jamesprial/marketplace-mcp/internal/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	root := commands.NewRootCommand(commands.DefaultFactory, os.Stdout)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
