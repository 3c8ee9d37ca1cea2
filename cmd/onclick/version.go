package main

import (
	"fmt"

	"github.com/aretw0/onclick"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of onclick",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "onclick version %s\n", onclick.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
