package main

import (
	"os"

	"github.com/aretw0/onclick/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <scenario.yaml>",
	Short: "Export the scenario objects as a Mermaid diagram",
	Long:  `Builds the scenario world and outputs a Mermaid diagram (graph TD) of its clickable objects and command edges.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interpreter, _ := cmd.Flags().GetString("interpreter")
		play, _ := cmd.Flags().GetBool("play")
		return cli.Graph(cmd.Context(), cli.GraphOptions{
			Path:        args[0],
			Interpreter: interpreter,
			Play:        play,
		}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("play", false, "Play the ticks first and highlight objects that fired")
}
