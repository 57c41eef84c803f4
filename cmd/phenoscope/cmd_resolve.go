package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/interaction"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a vector into effect invocations without rendering",
		Long: `Show which effects an activation vector resolves to, in priority
order, without touching any image.

Useful for inspecting how curves, the interaction graph and the active
threshold shape the final effect set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vectorPath, _ := cmd.Flags().GetString("vector")
			graphPath, _ := cmd.Flags().GetString("graph")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			vec, err := activation.LoadVector(vectorPath)
			if err != nil {
				return err
			}
			if violations := activation.Validate(vec); len(violations) > 0 {
				return &activation.InvalidVectorError{Violations: violations}
			}

			opts := resolve.DefaultOptions()
			opts.ActiveThreshold = cfg.Render.ActiveThreshold
			opts.GlobalIntensity = cfg.Render.GlobalIntensity
			if cmd.Flags().Changed("threshold") {
				opts.ActiveThreshold, _ = cmd.Flags().GetFloat64("threshold")
			}
			if cmd.Flags().Changed("global-intensity") {
				opts.GlobalIntensity, _ = cmd.Flags().GetFloat64("global-intensity")
			}

			if graphPath != "" {
				graph, err := interaction.Load(graphPath)
				if err != nil {
					return err
				}
				vec = graph.Propagate(vec)
				opts.Graph = graph
			}

			invocations, err := resolve.Resolve(vec, opts)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"invocations": invocations,
					"count":       len(invocations),
				})
			}

			if len(invocations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No effects survive the active threshold.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resolved effects (%d):\n\n", len(invocations))
			for i, inv := range invocations {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, inv.Node)
				fmt.Fprintf(cmd.OutOrStdout(), "   Effect:    %s/%s\n", inv.Module, inv.Effect)
				fmt.Fprintf(cmd.OutOrStdout(), "   Intensity: %.3f\n", inv.Intensity)
				fmt.Fprintf(cmd.OutOrStdout(), "   Priority:  %.3f\n", inv.Priority)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().String("vector", "", "Activation vector YAML file (required)")
	cmd.Flags().String("graph", "", "Interaction graph YAML file")
	cmd.Flags().Float64("global-intensity", 1.0, "Session-wide intensity scale [0-2]")
	cmd.Flags().Float64("threshold", 0.1, "Minimum resolved intensity for an effect to survive")
	cmd.MarkFlagRequired("vector")

	return cmd
}
