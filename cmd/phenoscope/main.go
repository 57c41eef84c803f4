package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "phenoscope",
		Short: "Phenoscope - activation-driven image transformation",
		Long: `phenoscope turns a 27-node activation vector into a deterministic
image transformation.

Each node maps to one visual effect. Activations are resolved through
per-node intensity curves, optionally adjusted by an interaction graph,
and the surviving effects are composed onto the input image.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("config", "phenoscope.yaml", "Path to config file")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRenderCmd(),
		newResolveCmd(),
		newValidateCmd(),
		newNodesCmd(),
		newHistoryCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{"version": version})
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "phenoscope version %s\n", version)
			}
		},
	}
}
