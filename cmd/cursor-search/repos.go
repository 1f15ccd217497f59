package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/cursordb"
)

func reposCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "repos",
		Short: "List repositories Cursor has tracked on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*configPath)
			if err != nil {
				return err
			}
			store, err := cursordb.NewStore(cfg.CursorDir)
			if err != nil {
				return err
			}
			repos, err := store.IndexedRepos(cmd.Context())
			if err != nil {
				return err
			}
			if len(repos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracked repositories.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REPOSITORY\tPATH\tLAST ACCESSED")
			for _, r := range repos {
				fmt.Fprintf(w, "%s/%s\t%s\t%s\n", r.Owner, r.Name, r.LocalPath, lastAccessed(r.LastAccessed))
			}
			return w.Flush()
		},
	}
}

func lastAccessed(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).Format(time.RFC3339)
}
