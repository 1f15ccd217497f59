package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/cursordb"
	"github.com/dshills/cursor-search-mcp/internal/mcp"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP protocol on stdio (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}

	// Stdout is reserved for the MCP protocol
	logger.Info().
		Str("version", version).
		Str("build_mode", cursordb.BuildMode).
		Str("driver", cursordb.DriverName).
		Str("backend", cfg.BaseURL).
		Msg("cursor-search MCP server starting")

	server, err := mcp.NewServer(cfg, logger, mcp.Dependencies{})
	if err != nil {
		return err
	}
	defer server.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Msg("MCP server ready, listening on stdio")
		errChan <- server.Serve(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, stopping")
	case err := <-errChan:
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	logger.Info().Msg("server stopped")
	return nil
}
