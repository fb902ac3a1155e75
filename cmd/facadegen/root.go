package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/atlas/gen"
	"github.com/kbukum/atlas/logger"
	"github.com/kbukum/atlas/version"
)

type rootOptions struct {
	types   []string
	output  string
	tags    []string
	dir     string
	dryRun  bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "facadegen [packages]",
		Short: "Generate typed facades for Go interfaces",
		Long: `facadegen writes <package>_facade.go next to the given packages (default ".").
The file holds one struct per interface forwarding every method to a
facade.Proxy, registered with facade.Implement so facade.Create can build it.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.SetGlobalLogger(newCLILogger(cmd.ErrOrStderr(), opts.verbose))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "interfaces to generate (default: all)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file name (single package only)")
	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "build tags used when loading packages")
	cmd.Flags().StringVarP(&opts.dir, "dir", "C", "", "directory to load packages from")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "print generated source instead of writing it")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newCLILogger(w io.Writer, verbose bool) *logger.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.NewWithWriter(&logger.Config{
		Level:     level,
		Format:    logger.FormatConsole,
		Timestamp: true,
	}, "facadegen", w)
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, patterns []string) error {
	outputs, err := gen.Generate(cmd.Context(), gen.Options{
		Dir:        opts.dir,
		Patterns:   patterns,
		Interfaces: opts.types,
		Output:     opts.output,
		BuildTags:  opts.tags,
	})
	if err != nil {
		return err
	}

	if opts.dryRun {
		for _, o := range outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", o.Path, o.Source)
		}
		return nil
	}
	if err := gen.Write(outputs); err != nil {
		return err
	}
	for _, o := range outputs {
		logger.Info("facades written", logger.Fields("package", o.Package, "file", o.Path))
	}
	if len(outputs) == 0 {
		logger.Warn("nothing generated", logger.Fields("patterns", patterns))
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the facadegen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

