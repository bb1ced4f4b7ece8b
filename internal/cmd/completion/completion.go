// Package completion provides shell completion generation commands.
package completion

import (
	"io"

	"github.com/spf13/cobra"
)

type shell struct {
	name    string
	load    string
	install string
	gen     func(root *cobra.Command, w io.Writer) error
}

var shells = []shell{
	{
		name: "bash",
		load: "source <(manscope completion bash)",
		install: `  # Linux
  manscope completion bash | sudo tee /etc/bash_completion.d/manscope > /dev/null

  # macOS (requires bash-completion)
  manscope completion bash > $(brew --prefix)/etc/bash_completion.d/manscope`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	{
		name: "zsh",
		load: "source <(manscope completion zsh)",
		install: `  # Completion must be enabled first: autoload -Uz compinit && compinit
  manscope completion zsh > "${fpath[1]}/_manscope"`,
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	{
		name:    "fish",
		load:    "manscope completion fish | source",
		install: "  manscope completion fish > ~/.config/fish/completions/manscope.fish",
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	{
		name:    "powershell",
		load:    "manscope completion powershell | Out-String | Invoke-Expression",
		install: "  manscope completion powershell >> $PROFILE",
		gen: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// NewCmdCompletion creates the completion command.
func NewCmdCompletion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for manscope.

These scripts enable tab-completion for commands, flags, and arguments.
See each sub-command's help for installation instructions.`,
	}

	for _, sh := range shells {
		cmd.AddCommand(newCmdShell(sh))
	}

	return cmd
}

func newCmdShell(sh shell) *cobra.Command {
	return &cobra.Command{
		Use:   sh.name,
		Short: "Generate " + sh.name + " completion script",
		Long: `Generate ` + sh.name + ` completion script for manscope.

To load completions in your current shell session:

  ` + sh.load + `

To load completions for every new session:

` + sh.install,
		Example:               "  " + sh.load,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return sh.gen(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
