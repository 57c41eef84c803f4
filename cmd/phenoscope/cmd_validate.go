package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an activation vector file",
		Long: `Check that a vector file names all 27 registered nodes exactly once
and that every activation is a finite value in [0, 1].

All violations are reported at once, not just the first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			vectorPath, _ := cmd.Flags().GetString("vector")
			jsonOut, _ := cmd.Flags().GetBool("json")

			vec, err := activation.LoadVector(vectorPath)
			if err != nil {
				return err
			}

			violations := activation.Validate(vec)

			if len(violations) == 0 {
				if jsonOut {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
						"valid": true,
						"nodes": len(vec),
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Vector is valid (%d nodes).\n", len(vec))
				return nil
			}

			if jsonOut {
				json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"valid":      false,
					"violations": violations,
				})
				return fmt.Errorf("vector is invalid")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vector is invalid (%d violations):\n", len(violations))
			for _, v := range violations {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s: %s\n", v.Node, v.Reason)
			}
			return fmt.Errorf("vector is invalid")
		},
	}

	cmd.Flags().String("vector", "", "Activation vector YAML file (required)")
	cmd.MarkFlagRequired("vector")

	return cmd
}
