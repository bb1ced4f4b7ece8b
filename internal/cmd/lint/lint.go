// Package lint provides the lint command.
package lint

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/cmd/cmdutil"
	"github.com/open-cli-collective/manscope/internal/metrics"
	"github.com/open-cli-collective/manscope/internal/view"
	"github.com/open-cli-collective/manscope/pkg/man"
)

type lintOptions struct {
	minSeverity string
	strict      bool
	metrics     bool
}

// fileResult is the outcome of linting one file.
type fileResult struct {
	file        string
	diagnostics []man.Diagnostic
	errors      int
	warnings    int
}

// NewCmdLint creates the lint command.
func NewCmdLint() *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint <file...>",
		Short: "Report scope diagnostics for man pages",
		Long: `Parse one or more man(7) documents and report only their diagnostics.

Files are parsed one after another. A summary line counts errors and
warnings across all files.`,
		Example: `  # Lint every page of section 1
  manscope lint man1/*.1

  # Only errors, as JSON
  manscope lint --min-severity error -o json ls.1 cp.1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.minSeverity, "min-severity", "", "lowest diagnostic severity to report: warning, error")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit with an error if any file has error diagnostics")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print parse metrics to stderr in Prometheus text format")

	return cmd
}

func runLint(cmd *cobra.Command, opts *lintOptions, files []string) error {
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

	var rec *metrics.Recorder
	if opts.metrics {
		rec = metrics.New()
	}

	var results []fileResult
	for _, name := range files {
		res, err := lintFile(cmd, s, rec, name)
		if err != nil {
			return err
		}
		res.diagnostics = man.FilterSeverity(res.diagnostics, minSeverity)
		results = append(results, res)
	}

	out := s.Renderer(cmd.OutOrStdout())
	totalErrors, totalWarnings := 0, 0
	var sets []view.FileDiagnostics
	for _, res := range results {
		totalErrors += res.errors
		totalWarnings += res.warnings
		if len(res.diagnostics) > 0 {
			sets = append(sets, view.FileDiagnostics{File: res.file, Diagnostics: res.diagnostics})
		}
	}
	structured := out.Format() == view.FormatJSON || out.Format() == view.FormatYAML
	if len(sets) > 0 || structured {
		if err := out.RenderFileDiagnostics(sets); err != nil {
			return err
		}
	}

	if out.Format() == view.FormatTable {
		summary := fmt.Sprintf("%d file(s): %d error(s), %d warning(s)", len(results), totalErrors, totalWarnings)
		if totalErrors > 0 {
			out.Error(summary)
		} else {
			out.Success(summary)
		}
	}

	if rec != nil {
		if err := rec.Write(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if strict && totalErrors > 0 {
		return fmt.Errorf("%w (%d error diagnostics)", cmdutil.ErrDiagnostics, totalErrors)
	}
	return nil
}

func lintFile(cmd *cobra.Command, s *cmdutil.Settings, rec *metrics.Recorder, name string) (fileResult, error) {
	r, file, err := cmdutil.OpenInput(cmd, name)
	if err != nil {
		return fileResult{}, err
	}
	defer func() { _ = r.Close() }()

	logger := s.Logger.With("file", file)
	start := time.Now()
	doc, err := man.Parse(r, man.WithLogger(logger))
	if err != nil {
		return fileResult{}, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if rec != nil {
		rec.Record(doc, time.Since(start))
	}

	res := fileResult{file: file, diagnostics: doc.Diagnostics}
	for kind, n := range man.CountKinds(doc.Diagnostics) {
		if kind.Severity() == man.SeverityError {
			res.errors += n
		} else {
			res.warnings += n
		}
	}
	logger.Debug("linted", "errors", res.errors, "warnings", res.warnings)
	return res, nil
}
