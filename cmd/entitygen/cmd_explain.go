package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/clone"
)

func newExplainCmd(opts *globalOptions) *cobra.Command {
	var (
		rf  requestFlags
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show where each property of the target would get its value from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cb, cfg, err := openProject(opts, rf.root)
			if err != nil {
				return err
			}
			if rf.at == "" && rf.method == "" {
				rf.method = "explain"
			}
			snap := cb.Snapshot()
			req, err := rf.request(snap, false)
			if err != nil {
				return err
			}
			res, err := clone.NewEngine(snap, nil, cfg.EngineOptions()).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				cs := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cs.Fdump(out, res.Matches)
				return nil
			}

			fmt.Fprintf(out, "%s\n", res.Target.Name)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PROPERTY\tSETTER\tTYPE\tSOURCE")
			for _, pm := range res.Matches {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pm.Key, pm.Setter, pm.SetterType, describeSource(pm))
			}
			return tw.Flush()
		},
	}

	rf.bind(cmd.Flags())
	cmd.Flags().BoolVar(&raw, "raw", false, "dump the match records as Go values")

	return cmd
}

func describeSource(pm clone.PropertyMatch) string {
	switch {
	case !pm.Matched:
		return "-"
	case pm.Direct:
		return pm.Expr + " (value)"
	}
	return pm.Expr
}
