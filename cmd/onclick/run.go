package main

import (
	"os"

	"github.com/aretw0/onclick/internal/cli"
	"github.com/aretw0/onclick/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>...",
	Short: "Play click scenarios and report the resulting world",
	Long: `Loads each scenario, spawns its objects, applies the scripted input tick by
tick and checks the expectations. Exits non-zero if any scenario fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interpreter, _ := cmd.Flags().GetString("interpreter")
		commands, _ := cmd.Flags().GetString("commands")
		plain, _ := cmd.Flags().GetBool("plain")
		banner, _ := cmd.Flags().GetBool("banner")

		if !tui.IsTerminal(os.Stdout) {
			plain = true
		}
		if banner && !plain {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Run(ctx, cli.RunOptions{
			Paths:        args,
			Interpreter:  interpreter,
			CommandsPath: commands,
			Plain:        plain,
			Log:          logOptions(cmd),
		}, os.Stdout, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering it")
	runCmd.Flags().Bool("banner", false, "Print the banner before the reports")
}
