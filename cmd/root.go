package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stillfm",
	Short: "StillFM is a guided meditation client.",
	Long:  `StillFM browses a guided meditation catalog, plays tracks with session tracking, and maintains the catalog as an operator.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
