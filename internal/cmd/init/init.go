// Package init provides the init command for manscope.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/config"
	"github.com/open-cli-collective/manscope/internal/view"
)

type initOptions struct {
	path    string
	cfg     config.Config
	noInput bool
	force   bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize manscope configuration",
		Long: `Initialize manscope with default output and diagnostic settings.

This command will guide you through choosing an output format, log level,
minimum diagnostic severity and strict mode. The configuration will be saved
to ~/.config/manscope/config.yml unless --config names another file.
A path ending in .toml is written as TOML.`,
		Example: `  # Interactive setup
  manscope init

  # Write settings without prompting
  manscope init --no-input --output json --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.path, _ = cmd.Flags().GetString("config")
			if opts.path == "" {
				opts.path = config.DefaultConfigPath()
			}
			return runInit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.cfg.OutputFormat, "format", "", "Default output format (table, json, yaml, plain)")
	cmd.Flags().StringVar(&opts.cfg.LogLevel, "level", "", "Default log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.cfg.MinSeverity, "min-severity", "", "Default minimum diagnostic severity (warning, error)")
	cmd.Flags().BoolVar(&opts.cfg.Strict, "strict", false, "Fail when a document has error diagnostics")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Save the given values without prompting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

func runInit(w io.Writer, opts *initOptions) error {
	cfg := opts.cfg

	if _, err := os.Stat(opts.path); err == nil && !opts.force {
		if opts.noInput {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", opts.path)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", opts.path)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	if !opts.noInput {
		if err := prompt(&cfg); err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Save(opts.path); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", opts.path)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  manscope parse page.1")
	fmt.Fprintln(w, "  manscope lint *.1")

	return nil
}

func prompt(cfg *config.Config) error {
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = string(view.FormatTable)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MinSeverity == "" {
		cfg.MinSeverity = "warning"
	}

	formats := make([]huh.Option[string], 0, len(view.ValidFormats()))
	for _, f := range view.ValidFormats() {
		formats = append(formats, huh.NewOption(f, f))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("Format used by parse, lint and macros").
				Options(formats...).
				Value(&cfg.OutputFormat),

			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&cfg.LogLevel),

			huh.NewSelect[string]().
				Title("Minimum severity").
				Description("Diagnostics below this severity are hidden").
				Options(huh.NewOptions("warning", "error")...).
				Value(&cfg.MinSeverity),

			huh.NewConfirm().
				Title("Strict mode").
				Description("Exit non-zero when a document has error diagnostics").
				Value(&cfg.Strict),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("initialization cancelled")
		}
		return err
	}
	return nil
}
