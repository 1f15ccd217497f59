package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dshills/cursor-search-mcp/internal/auth"
	"github.com/dshills/cursor-search-mcp/internal/cursordb"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "Cursor Search MCP Server\n")
			fmt.Fprintf(out, "Version:        %s\n", version)
			fmt.Fprintf(out, "Build Time:     %s\n", buildTime)
			fmt.Fprintf(out, "Build Mode:     %s\n", cursordb.BuildMode)
			fmt.Fprintf(out, "SQLite Driver:  %s\n", cursordb.DriverName)
			fmt.Fprintf(out, "Client Version: %s\n", auth.ClientVersion())
			fmt.Fprintf(out, "Go version:     %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch:        %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print only the version number")
	return cmd
}
