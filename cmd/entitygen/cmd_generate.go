package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/clone"
)

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	var (
		rf       requestFlags
		matched  bool
		write    bool
		localVar string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a factory method for a call to a method that does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, cfg, err := openProject(opts, rf.root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("matched") {
				cfg.Strict = matched
			}
			if localVar != "" {
				cfg.LocalVariable = localVar
			}

			snap := cb.Snapshot()
			req, err := rf.request(snap, cfg.Strict)
			if err != nil {
				return err
			}
			engine := clone.NewEngine(snap, nil, cfg.EngineOptions())

			out := cmd.OutOrStdout()
			if write {
				res, err := engine.Apply(cmd.Context(), req, cb)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "inserted %s into %s\n", res.Method.Signature(), res.Receiver.SourceFile)
				return nil
			}
			res, err := engine.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(out, res.Method.String())
			return nil
		},
	}

	rf.bind(cmd.Flags())
	cmd.Flags().BoolVar(&matched, "matched", false, "emit only setters that found a source")
	cmd.Flags().BoolVar(&write, "write", false, "insert the method into the receiver's source file")
	cmd.Flags().StringVar(&localVar, "local-var", "", "name of the local variable holding the new instance")

	return cmd
}
