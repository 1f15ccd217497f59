package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/config"
	"github.com/dshills/cursor-search-mcp/internal/logging"
	"github.com/dshills/cursor-search-mcp/internal/mcp"
)

// Version information set at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cursor-search",
		Short: "Semantic codebase search over Cursor's index, served as an MCP tool",
		Long: `cursor-search exposes the codebase index Cursor already built for a
repository to any MCP client. Run without a subcommand it serves the MCP
protocol on stdin/stdout.

Credentials are read from Cursor's local state database, or from
CURSOR_ACCESS_TOKEN when set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a TOML config file (default $"+config.EnvConfigFile+")")

	rootCmd.AddCommand(
		serveCmd(&configPath),
		searchCmd(&configPath),
		reposCmd(&configPath),
		checksumCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the stderr logger.
func setup(configPath string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Service: mcp.ServerName,
	})
	return cfg, logger, nil
}
