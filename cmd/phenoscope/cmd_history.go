package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [render-id]",
		Short: "Show recorded renders",
		Long: `List recent renders from the history log, or show one render in
full when a render id is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("history is disabled in config")
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				rec, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(rec)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Render %s\n", rec.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  At:      %s\n", rec.CreatedAt.Format(time.RFC3339))
				fmt.Fprintf(cmd.OutOrStdout(), "  Mode:    %s\n", rec.Mode)
				fmt.Fprintf(cmd.OutOrStdout(), "  Applied: %v\n", rec.Applied)
				for _, s := range rec.Skipped {
					fmt.Fprintf(cmd.OutOrStdout(), "  Skipped: %s (%s)\n", s.Node, s.Reason)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  Took:    %s\n", rec.Elapsed)
				return nil
			}

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"renders": records,
					"count":   len(records),
				})
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No renders recorded yet.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recent renders (%d):\n\n", len(records))
			for i, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, rec.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "   %s  mode=%s  effects=%d\n",
					rec.CreatedAt.Format(time.RFC3339), rec.Mode, len(rec.Applied))
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of renders to list")

	return cmd
}
