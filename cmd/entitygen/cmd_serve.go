package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/api"
	"github.com/dhamidi/entitygen/java/codebase"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var (
		root string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, cfg, err := openProject(opts, root)
			if err != nil {
				return err
			}
			watcher := codebase.NewFileWatcher(cb, 0)
			watcher.Start()
			defer watcher.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.NewServer(cb, cfg).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root to scan for .java files")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")

	return cmd
}
