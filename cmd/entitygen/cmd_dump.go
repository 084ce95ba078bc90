package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/entitygen/format"
)

func newDumpCmd(opts *globalOptions) *cobra.Command {
	var (
		dumpFormat string
		root       string
	)

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Dump the class models of a .java file with the accessors each class exposes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if filepath.Ext(path) != ".java" {
				return fmt.Errorf("unsupported file extension: %s (expected .java)", filepath.Ext(path))
			}

			cb, _, err := openProject(opts, root)
			if err != nil {
				return err
			}
			if err := cb.ScanFile(path); err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			f := cb.GetFile(path)
			if f.ParseErr != nil {
				return fmt.Errorf("parse java file: %w", f.ParseErr)
			}

			snap := cb.Snapshot()
			out := cmd.OutOrStdout()
			for _, model := range f.Classes {
				switch dumpFormat {
				case "json":
					if err := format.NewJSONModelEncoder(out).WithAccessors(snap).Encode(model); err != nil {
						return fmt.Errorf("encode json: %w", err)
					}
				case "line":
					if err := format.NewLineModelEncoder(out).WithAccessors(snap).Encode(model); err != nil {
						return fmt.Errorf("encode line: %w", err)
					}
				default:
					return fmt.Errorf("unknown format: %s (expected json or line)", dumpFormat)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "line", "output format (json, line)")
	cmd.Flags().StringVar(&root, "root", ".", "project root whose classes resolve supertypes")

	return cmd
}
