// Package root provides the root command for the manscope CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/cmd/cmdutil"
	"github.com/open-cli-collective/manscope/internal/cmd/completion"
	"github.com/open-cli-collective/manscope/internal/cmd/configcmd"
	initcmd "github.com/open-cli-collective/manscope/internal/cmd/init"
	"github.com/open-cli-collective/manscope/internal/cmd/lint"
	"github.com/open-cli-collective/manscope/internal/cmd/macros"
	"github.com/open-cli-collective/manscope/internal/cmd/parse"
	"github.com/open-cli-collective/manscope/internal/version"
)

// NewCmdRoot creates the root command for manscope.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manscope",
		Short: "Parse and lint man(7) page structure",
		Long: `manscope builds the block structure of man(7) pages.

It reads roff source with the man macro package, resolves the implicit and
explicit scopes of sections, paragraphs, relative insets and links, and
reports scope errors such as unclosed blocks or broken line scopes.

Get started by running: manscope parse page.1`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	cmdutil.AddGlobalFlags(cmd)
	cmd.SetVersionTemplate(version.Template("manscope"))

	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(parse.NewCmdParse())
	cmd.AddCommand(lint.NewCmdLint())
	cmd.AddCommand(macros.NewCmdMacros())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
