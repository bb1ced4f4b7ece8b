package configcmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/config"
)

// NewCmdClear creates the config clear command.
func NewCmdClear() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove stored configuration",
		Long:  `Delete the manscope configuration file. Environment variables will still be used if set.`,
		Example: `  # Clear config
  manscope config clear`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runClear(cmd.OutOrStdout(), configPath(cmd), noColor)
		},
	}

	return cmd
}

func runClear(w io.Writer, path string, noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove config file: %w", err)
	}

	green := color.New(color.FgGreen)
	dim := color.New(color.Faint)

	if err != nil {
		_, _ = green.Fprintf(w, "✓ No config file to remove\n")
	} else {
		_, _ = green.Fprintf(w, "✓ Configuration cleared from %s\n", path)
	}

	var activeVars []string
	for _, v := range config.EnvVars {
		if os.Getenv(v) != "" {
			activeVars = append(activeVars, v)
		}
	}

	if len(activeVars) > 0 {
		_, _ = dim.Fprintf(w, "\nNote: Environment variables will still be used: %s\n", strings.Join(activeVars, ", "))
	}

	return nil
}
