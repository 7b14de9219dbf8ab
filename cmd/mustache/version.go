package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print mustache CLI version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		version := Version
		if info, ok := debug.ReadBuildInfo(); ok && version == "dev" {
			version = info.Main.Version
		}
		fmt.Printf("mustache %s\n", version)
		fmt.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
