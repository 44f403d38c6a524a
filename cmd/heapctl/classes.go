package main

import (
	"github.com/spf13/cobra"

	"github.com/edward-official/week07-jungle/heap/alloc"
)

func init() {
	rootCmd.AddCommand(newClassesCmd())
}

func newClassesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "Show the size-class table",
		Long: `The classes command prints the free-list size classes of the default
configuration: each bucket's size range and the catch-all class above the
largest boundary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showClasses()
		},
	}
}

func showClasses() error {
	bounds := alloc.DefaultConfig.ClassBoundaries()

	if jsonOut {
		return printJSON(map[string]interface{}{
			"config":     alloc.DefaultConfig.Name,
			"boundaries": bounds,
		})
	}

	printInfo("config %s, %d classes + catch-all\n", alloc.DefaultConfig.Name, len(bounds))
	lo := 0
	for i, hi := range bounds {
		printInfo("  class %2d: %5d - %5d bytes\n", i, lo+1, hi)
		lo = hi
	}
	printInfo("  class %2d: %5d+       bytes\n", len(bounds), lo+1)
	return nil
}
