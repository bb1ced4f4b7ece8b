package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective manscope configuration and where each value comes from.`,
		Example: `  # Show current config
  manscope config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(cmd.OutOrStdout(), configPath(cmd), noColor)
		},
	}

	return cmd
}

func runShow(w io.Writer, path string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	// The file may not exist.
	fileCfg, fileErr := config.Load(path)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar, def string) {
		_, _ = bold.Fprintf(w, "%-14s", label+":")

		source := "default"
		switch {
		case os.Getenv(envVar) != "":
			source = envVar
		case fileErr == nil && fileValue != "":
			source = "config"
		}

		if value == "" {
			value = def
		}
		fmt.Fprint(w, value)
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source)
	}

	printField("Output", cfg.OutputFormat, fileCfg.OutputFormat, config.EnvOutput, "table")
	printField("Log level", cfg.LogLevel, fileCfg.LogLevel, config.EnvLogLevel, "info")
	printField("Min severity", cfg.MinSeverity, fileCfg.MinSeverity, config.EnvMinSeverity, "warning")
	strict := ""
	if cfg.Strict {
		strict = strconv.FormatBool(cfg.Strict)
	}
	fileStrict := ""
	if fileCfg.Strict {
		fileStrict = strconv.FormatBool(fileCfg.Strict)
	}
	printField("Strict", strict, fileStrict, config.EnvStrict, "false")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", path)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
