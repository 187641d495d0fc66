package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/source"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the source provider roster",
	Run: func(cmd *cobra.Command, args []string) {
		for i, p := range source.DefaultRegistry().Roster() {
			fmt.Printf("%d. %s\n", i+1, p.Name())
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
