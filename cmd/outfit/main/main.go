package main

import (
	"os"

	"github.com/arthur-debert/outfit/cmd/outfit"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		pterm.DisableStyling()
	}

	rootCmd := outfit.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		outfit.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
