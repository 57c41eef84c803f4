package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/activation"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/compose"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/config"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/effects"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/history"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/imgio"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/interaction"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/logging"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/render"
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an image through the activation pipeline",
		Long: `Resolve an activation vector into effect invocations and compose
them onto the input image.

Example:
  phenoscope render --input in.png --output out.png --vector vector.yaml
  phenoscope render --input in.png --output out.png --vector vector.yaml --graph graph.yaml --mode parallel`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")
			vectorPath, _ := cmd.Flags().GetString("vector")
			graphPath, _ := cmd.Flags().GetString("graph")
			mode, _ := cmd.Flags().GetString("mode")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			req := render.Request{
				Mode:            compose.Mode(cfg.Render.Mode),
				Propagate:       cfg.Render.Propagate,
				ActiveThreshold: cfg.Render.ActiveThreshold,
				GlobalIntensity: cfg.Render.GlobalIntensity,
			}
			if mode != "" {
				parsed, err := compose.ParseMode(mode)
				if err != nil {
					return err
				}
				req.Mode = parsed
			}
			if cmd.Flags().Changed("global-intensity") {
				req.GlobalIntensity, _ = cmd.Flags().GetFloat64("global-intensity")
			}
			if cmd.Flags().Changed("threshold") {
				req.ActiveThreshold, _ = cmd.Flags().GetFloat64("threshold")
			}

			req.Vector, err = activation.LoadVector(vectorPath)
			if err != nil {
				return err
			}
			if graphPath != "" {
				req.Graph, err = interaction.Load(graphPath)
				if err != nil {
					return err
				}
			}

			base, err := imgio.Load(input)
			if err != nil {
				return err
			}

			renderer := render.New(effects.Builtin(), logger)
			result, err := renderer.Render(cmd.Context(), base, req)
			if err != nil {
				return err
			}

			if err := imgio.Save(result.Image, output); err != nil {
				return err
			}

			if cfg.History.Enabled {
				if err := recordRender(cmd.Context(), cfg, req, result); err != nil {
					logger.Warn("failed to record render history", "render_id", result.ID, "error", err)
				}
			}

			tracer := logging.NewTraceLogger(".phenoscope", cfg.Logging.Level)
			tracer.Log(map[string]any{
				"render_id":  result.ID,
				"mode":       string(req.Mode),
				"applied":    result.Diagnostics.Applied,
				"skipped":    result.Diagnostics.Skipped,
				"elapsed_ms": result.Elapsed.Milliseconds(),
			})
			tracer.Close()

			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"render_id":   result.ID,
					"output":      output,
					"mode":        string(req.Mode),
					"applied":     result.Diagnostics.Applied,
					"skipped":     result.Diagnostics.Skipped,
					"invocations": result.Invocations,
					"elapsed_ms":  result.Elapsed.Milliseconds(),
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s -> %s\n", input, output)
			fmt.Fprintf(cmd.OutOrStdout(), "  ID:      %s\n", result.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  Mode:    %s\n", req.Mode)
			fmt.Fprintf(cmd.OutOrStdout(), "  Effects: %d applied", len(result.Diagnostics.Applied))
			if n := len(result.Diagnostics.Skipped); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d skipped", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, inv := range result.Invocations {
				fmt.Fprintf(cmd.OutOrStdout(), "    %-28s %s/%s intensity=%.3f\n",
					inv.Node, inv.Module, inv.Effect, inv.Intensity)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  Took:    %s\n", result.Elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().String("input", "", "Input image path (required)")
	cmd.Flags().String("output", "", "Output image path (required)")
	cmd.Flags().String("vector", "", "Activation vector YAML file (required)")
	cmd.Flags().String("graph", "", "Interaction graph YAML file")
	cmd.Flags().String("mode", "", "Composition mode: layered, sequential or parallel")
	cmd.Flags().Float64("global-intensity", 1.0, "Session-wide intensity scale [0-2]")
	cmd.Flags().Float64("threshold", 0.1, "Minimum resolved intensity for an effect to apply")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")
	cmd.MarkFlagRequired("vector")

	return cmd
}

func recordRender(ctx context.Context, cfg *config.Config, req render.Request, result *render.Result) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Append(ctx, history.Record{
		ID:          result.ID,
		CreatedAt:   time.Now().UTC(),
		Mode:        string(req.Mode),
		Vector:      req.Vector,
		Invocations: result.Invocations,
		Applied:     result.Diagnostics.Applied,
		Skipped:     result.Diagnostics.Skipped,
		Elapsed:     result.Elapsed,
	})
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
