package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/config"
	"github.com/dhamidi/entitygen/java/codebase"
)

func newLSPCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg *config.Config
			if opts.configPath != "" {
				var err error
				if cfg, err = config.LoadFile(opts.configPath); err != nil {
					return err
				}
			}
			return codebase.NewLSPServer(version, cfg).RunStdio()
		},
	}
}
