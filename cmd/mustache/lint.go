package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarkflow/mustache"
)

var lintCmd = &cobra.Command{
	Use:   "lint <template>...",
	Short: "parse one or more templates and report the first error in each",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	failed := false
	for _, path := range args {
		if _, err := mustache.ParseFile(path); err != nil {
			failed = true
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}
	if failed {
		return fmt.Errorf("one or more templates failed to parse")
	}
	return nil
}
