package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/onclick/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "onclick",
	Short: "onclick runs ordered click behaviors against a shared world",
	Long: `onclick plays click scenarios (objects, action queues and scripted presses)
and hosts worlds behind an HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrScenarioFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error); empty disables logging")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and dispatch tracing")
	rootCmd.PersistentFlags().String("interpreter", "", "Delegated command interpreter (none, registry, lua, process)")
	rootCmd.PersistentFlags().String("commands", "commands.yaml", "Allow-listed processes for the process interpreter")
}

func logOptions(cmd *cobra.Command) cli.LogOptions {
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.LogOptions{Level: level, Format: format, Debug: debug}
}
