package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ananthvk/kvgen"
	"github.com/ananthvk/kvgen/internal/command"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const stdoutPath = "-"

type generateOptions struct {
	out      string
	count    int
	seed     uint64
	format   string
	manifest bool
	verbose  bool
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "kvgen",
		Short: "Generate a random command stream for a key-value store",
		Long: `kvgen writes a stream of random insert, delete and lookup commands over a pool
of random keys. Without flags it writes 10000 commands to in.txt in the working
directory, using unseeded randomness.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.out, "out", "o", kvgen.DefaultOutput, "output file, - writes to standard output")
	flags.IntVarP(&opts.count, "count", "n", kvgen.DefaultCount, "number of commands to generate")
	flags.Uint64VarP(&opts.seed, "seed", "s", 0, "seed for a reproducible run (unseeded when not set)")
	flags.StringVarP(&opts.format, "format", "f", command.FormatLines.String(), "output format: lines or resp")
	flags.BoolVar(&opts.manifest, "manifest", false, "write a manifest describing the run next to the output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newVerifyCmd(fs, opts))
	return cmd
}

func runGenerate(cmd *cobra.Command, fs afero.Fs, opts *generateOptions) error {
	format, err := command.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if opts.count <= 0 {
		return fmt.Errorf("%w: %d", kvgen.ErrInvalidCount, opts.count)
	}

	cfg := kvgen.Config{
		Count:    opts.count,
		Seed:     opts.seed,
		Seeded:   cmd.Flags().Changed("seed"),
		Format:   format,
		Manifest: opts.manifest,
		Logger:   newLogger(opts.verbose),
	}

	if opts.out == stdoutPath {
		_, err := kvgen.Stream(cmd.OutOrStdout(), cfg)
		return err
	}
	_, err = kvgen.WriteFile(fs, opts.out, cfg)
	return err
}

// newLogger logs to stderr so that it never mixes with a stream written to stdout
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
