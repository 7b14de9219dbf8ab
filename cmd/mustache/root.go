package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string

	// Version is injected at build time via -ldflags.
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "mustache",
	Short: "mustache renders logic-less Mustache templates",
	Long: `mustache is a command-line front end for the mustache rendering
library: it parses a template, resolves a JSON data file against it and
writes the result to stdout.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is the sole entry point called
// from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a mustache CLI config file (YAML)")
}
