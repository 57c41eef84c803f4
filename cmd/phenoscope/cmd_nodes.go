package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/resolve"
)

func newNodesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the 27 registered nodes and their effect mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			dimension, _ := cmd.Flags().GetString("dimension")
			jsonOut, _ := cmd.Flags().GetBool("json")

			if dimension != "" {
				known := false
				for _, d := range activation.Dimensions {
					if string(d) == dimension {
						known = true
						break
					}
				}
				if !known {
					return fmt.Errorf("unknown dimension: %s", dimension)
				}
			}

			type nodeRow struct {
				Name         string  `json:"name"`
				Dimension    string  `json:"dimension"`
				BasePriority float64 `json:"base_priority"`
				Module       string  `json:"module"`
				Effect       string  `json:"effect"`
				Curve        string  `json:"curve"`
				MaxIntensity float64 `json:"max_intensity"`
				Inverted     bool    `json:"inverted"`
			}

			var rows []nodeRow
			for _, m := range resolve.Mappings() {
				dim, _ := activation.DimensionOf(m.Node)
				if dimension != "" && string(dim) != dimension {
					continue
				}
				rows = append(rows, nodeRow{
					Name:         m.Node,
					Dimension:    string(dim),
					BasePriority: activation.BasePriority(dim),
					Module:       m.Module,
					Effect:       m.Effect,
					Curve:        string(m.Curve),
					MaxIntensity: m.MaxIntensity,
					Inverted:     m.Invert,
				})
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"nodes": rows,
					"count": len(rows),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered nodes (%d):\n\n", len(rows))
			current := ""
			for _, r := range rows {
				if r.Dimension != current {
					current = r.Dimension
					fmt.Fprintf(cmd.OutOrStdout(), "%s (priority %.0f)\n", current, r.BasePriority)
				}
				inverted := ""
				if r.Inverted {
					inverted = " inverted"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %-28s %s/%s curve=%s max=%.2f%s\n",
					r.Name, r.Module, r.Effect, r.Curve, r.MaxIntensity, inverted)
			}
			return nil
		},
	}

	cmd.Flags().String("dimension", "", "Restrict to one dimension (e.g. 'appearance')")

	return cmd
}
