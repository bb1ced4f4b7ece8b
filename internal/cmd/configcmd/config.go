// Package configcmd provides config management commands.
package configcmd

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/config"
)

// NewCmdConfig creates the config command.
func NewCmdConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage manscope configuration",
		Long:  `Commands for viewing and clearing manscope configuration.`,
	}

	cmd.AddCommand(NewCmdShow())
	cmd.AddCommand(NewCmdClear())

	return cmd
}

func configPath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.DefaultConfigPath()
}
