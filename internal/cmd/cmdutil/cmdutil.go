// Package cmdutil resolves the settings shared by manscope commands from
// global flags, the config file and the environment.
package cmdutil

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/config"
	"github.com/open-cli-collective/manscope/internal/logging"
	"github.com/open-cli-collective/manscope/internal/view"
)

// ErrDiagnostics is returned in strict mode when a document produced
// error-severity diagnostics.
var ErrDiagnostics = errors.New("document has errors")

// AddGlobalFlags registers the persistent flags every command reads.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/manscope/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json, yaml, plain (default: table)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info)")
}

// Settings is the effective configuration of one command run.
type Settings struct {
	Config     *config.Config
	ConfigPath string
	Output     view.Format
	NoColor    bool
	Logger     *slog.Logger
	RunID      string
}

// Load reads the global flags of cmd, layers them over the config file
// and environment, and builds the run logger. Flags win over the
// environment, which wins over the file.
func Load(cmd *cobra.Command) (*Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.OutputFormat = output
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger, runID := logging.WithRun(logging.New(level, cmd.ErrOrStderr()))
	noColor, _ := cmd.Flags().GetBool("no-color")

	return &Settings{
		Config:     cfg,
		ConfigPath: path,
		Output:     view.Format(cfg.OutputFormat),
		NoColor:    noColor,
		Logger:     logger,
		RunID:      runID,
	}, nil
}

// Renderer returns a renderer in the configured format writing to w.
func (s *Settings) Renderer(w io.Writer) *view.Renderer {
	r := view.NewRenderer(s.Output, s.NoColor)
	r.SetWriter(w)
	return r
}

// OpenInput opens name for reading; "-" and "" mean stdin.
func OpenInput(cmd *cobra.Command, name string) (io.ReadCloser, string, error) {
	if name == "" || name == "-" {
		return io.NopCloser(cmd.InOrStdin()), "<stdin>", nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, name, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, name, nil
}
