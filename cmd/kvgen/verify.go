package main

import (
	"fmt"

	"github.com/ananthvk/kvgen"
	"github.com/ananthvk/kvgen/internal/command"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newVerifyCmd(fs afero.Fs, opts *generateOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Replay a generated file against an empty key pool and check it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := kvgen.DefaultOutput
			if len(args) == 1 {
				path = args[0]
			}
			f, err := command.ParseFormat(format)
			if err != nil {
				return err
			}

			report, err := kvgen.Verify(fs, path, f)
			if err != nil {
				return err
			}
			newLogger(opts.verbose).Debug("file verified", "path", path, "format", f.String())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "inserts: %d\n", report.Inserts)
			fmt.Fprintf(out, "deletes: %d (%d of unknown keys)\n", report.Deletes, report.UnknownDeletes)
			fmt.Fprintf(out, "lookups: %d\n", report.Lookups)
			fmt.Fprintf(out, "pool size: %d\n", report.PoolSize)
			if report.Manifest != nil {
				fmt.Fprintf(out, "manifest: run %s matches\n", report.Manifest.RunID)
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", command.FormatLines.String(), "format of the file: lines or resp")
	return cmd
}
