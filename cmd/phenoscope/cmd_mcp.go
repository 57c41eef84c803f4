package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/logging"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Expose the render pipeline as MCP tools over stdio.

Tools:
  phenoscope_render           render an image through the pipeline
  phenoscope_resolve_effects  resolve a vector without rendering
  phenoscope_list_nodes       list the registered nodes

Logs go to stderr; stdout carries the MCP protocol.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			server, err := mcp.NewServer(&mcp.Config{
				Name:    "phenoscope",
				Version: version,
			}, *cfg, logger)
			if err != nil {
				return err
			}

			return server.Run(cmd.Context())
		},
	}
}
