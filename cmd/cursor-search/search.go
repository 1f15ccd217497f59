package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/client"
	"github.com/dshills/cursor-search-mcp/internal/cursordb"
	"github.com/dshills/cursor-search-mcp/internal/gitinfo"
	"github.com/dshills/cursor-search-mcp/internal/mcp"
)

func searchCmd(configPath *string) *cobra.Command {
	var (
		dir    string
		topK   int
		noRank bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run one semantic search and print the results",
		Long: `Run one semantic search against the current repository's index and
print the results as markdown. Useful for checking credentials and
repository detection without an MCP client.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			if topK > 0 {
				cfg.TopK = topK
			}
			if noRank {
				cfg.Rerank = false
			}

			ctx := cmd.Context()
			store, err := cursordb.NewStore(cfg.CursorDir)
			if err != nil {
				return err
			}
			creds, err := auth.Load(ctx, store)
			if err != nil {
				return err
			}
			repo, err := gitinfo.Resolve(ctx, cfg.Repo)
			if err != nil {
				return err
			}
			keys, err := store.RepoKeys(ctx, repo.WorkspacePath)
			if err != nil && !errors.Is(err, cursordb.ErrNotFound) && !errors.Is(err, cursordb.ErrDatabaseNotFound) {
				logger.Warn().Err(err).Msg("failed to read repo keys")
			}

			c, err := client.New(client.Options{
				BaseURL:       cfg.BaseURL,
				Credentials:   creds,
				ClientVersion: cfg.ClientVersion,
				MachineID:     cfg.MachineID,
				Repo:          *repo,
				Keys:          keys,
				PathKey:       cfg.PathEncryptionKey,
				IsLocal:       cfg.LocalRepo,
				Timeout:       cfg.Timeout,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			defer c.Close()

			return runSearch(ctx, c, cmd, strings.Join(args, " "), dir, cfg.TopK, cfg.Rerank)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "limit the search to one directory")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "number of results (default from config)")
	cmd.Flags().BoolVar(&noRank, "no-rerank", false, "skip server-side reranking")

	return cmd
}

func runSearch(ctx context.Context, s mcp.Searcher, cmd *cobra.Command, query, dir string, topK int, rerank bool) error {
	result, err := s.Search(ctx, client.Query{
		Text:            query,
		TargetDirectory: dir,
		TopK:            topK,
		Rerank:          rerank,
	})
	if err != nil {
		return err
	}
	if result.HasError() {
		return fmt.Errorf("backend error: %s", result.ErrorMessage())
	}
	fmt.Fprint(cmd.OutOrStdout(), mcp.FormatResults(result, "command line search"))
	return nil
}
