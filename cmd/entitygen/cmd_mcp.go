package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/mcpserver"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mcpserver.Run(ctx, mcpserver.Options{Version: version, Root: root})
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project used when a tool call names none")

	return cmd
}
