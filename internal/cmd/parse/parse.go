// Package parse provides the parse command.
package parse

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/cmd/cmdutil"
	"github.com/open-cli-collective/manscope/internal/metrics"
	"github.com/open-cli-collective/manscope/internal/view"
	"github.com/open-cli-collective/manscope/pkg/man"
)

type parseOptions struct {
	minSeverity string
	strict      bool
	metrics     bool
}

// NewCmdParse creates the parse command.
func NewCmdParse() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a man page and print its tree",
		Long: `Parse a man(7) document and print the resulting node tree.

The tree is written to standard output as an indented outline (table and
plain output) or as a full document (json and yaml output). Diagnostics
go to standard error; with json or yaml output they are also part of the
document. Without a file argument, or with "-", the page is read from
standard input.`,
		Example: `  # Print the tree of a page
  manscope parse ls.1

  # Read from stdin and emit JSON
  zcat ls.1.gz | manscope parse -o json

  # Fail on error diagnostics
  manscope parse --strict ls.1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runParse(cmd, opts, name)
		},
	}

	cmd.Flags().StringVar(&opts.minSeverity, "min-severity", "", "lowest diagnostic severity to report: warning, error")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error if the document has error diagnostics")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print parse metrics to stderr in Prometheus text format")

	return cmd
}

func runParse(cmd *cobra.Command, opts *parseOptions, name string) error {
	s, err := cmdutil.Load(cmd)
	if err != nil {
		return err
	}
	if opts.minSeverity == "" {
		opts.minSeverity = s.Config.MinSeverity
	}
	minSeverity, err := man.ParseSeverity(opts.minSeverity)
	if err != nil {
		return err
	}
	strict := opts.strict || s.Config.Strict

	r, file, err := cmdutil.OpenInput(cmd, name)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	logger := s.Logger.With("file", file)
	start := time.Now()
	doc, err := man.Parse(r, man.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	elapsed := time.Since(start)
	logger.Debug("parsed", "nodes", doc.NodeCount(), "diagnostics", len(doc.Diagnostics), "elapsed", elapsed)

	shown := man.FilterSeverity(doc.Diagnostics, minSeverity)
	out := s.Renderer(cmd.OutOrStdout())
	switch out.Format() {
	case view.FormatJSON, view.FormatYAML:
		if err := out.RenderTree(&man.Document{Root: doc.Root, Diagnostics: shown}); err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
	default:
		if err := out.RenderTree(doc); err != nil {
			return fmt.Errorf("failed to render tree: %w", err)
		}
		errOut := view.NewRenderer(view.FormatPlain, s.NoColor)
		errOut.SetWriter(cmd.ErrOrStderr())
		if err := errOut.RenderDiagnostics(file, shown); err != nil {
			return err
		}
	}

	if opts.metrics {
		rec := metrics.New()
		rec.Record(doc, elapsed)
		if err := rec.Write(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if strict {
		if n := len(man.FilterSeverity(doc.Diagnostics, man.SeverityError)); n > 0 {
			return fmt.Errorf("%s: %w (%d error diagnostics)", file, cmdutil.ErrDiagnostics, n)
		}
	}
	return nil
}
