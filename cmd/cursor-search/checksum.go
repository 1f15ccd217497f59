package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/checksum"
)

func checksumCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "checksum",
		Short: "Print the X-Cursor-Checksum header for this moment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), checksum.Generate(time.Now(), cfg.MachineID))
			return nil
		},
	}
}
