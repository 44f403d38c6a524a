package main

import (
	"github.com/spf13/cobra"
)

// Build metadata, overridden via -ldflags at release time. version also
// backs rootCmd's --version flag.
var (
	version = "0.1.0"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOut {
			return printJSON(map[string]string{
				"version": version,
				"commit":  commit,
				"date":    date,
			})
		}
		printInfo("heapctl %s (commit %s, built %s)\n", version, commit, date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
