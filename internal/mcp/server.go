// Package mcp provides an MCP (Model Context Protocol) server for phenoscope.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yaaman18/intrinsic-existence-media-art/internal/config"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/effects"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/history"
	"github.com/yaaman18/intrinsic-existence-media-art/internal/render"
)

// Server wraps the MCP SDK server and exposes the render pipeline as tools.
type Server struct {
	server   *sdk.Server
	renderer *render.Renderer
	cfg      config.Config
	store    *history.Store // nil when history is disabled
	logger   *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "phenoscope")
	Version string // Server version
}

// NewServer creates a new MCP server with phenoscope tools.
func NewServer(serverCfg *Config, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var store *history.Store
	if cfg.History.Enabled {
		var err error
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    serverCfg.Name,
		Version: serverCfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:   mcpServer,
		renderer: render.New(effects.Builtin(), logger),
		cfg:      cfg,
		store:    store,
		logger:   logger,
	}

	if err := s.registerTools(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.Close()

	return err
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
