// Package macros provides the macros command.
package macros

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/manscope/internal/cmd/cmdutil"
	"github.com/open-cli-collective/manscope/pkg/man"
)

// NewCmdMacros creates the macros command.
func NewCmdMacros() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "macros",
		Short: "List the known macros and how they scope",
		Long: `List every macro the parser knows with the handler that parses it
and its scoping flags:

  nscoped  allowed inside a pending next-line scope
  scoped   may leave its scope open until the next line
  bscope   acts at block level and breaks a pending block head
  join     merges its arguments into one text node`,
		Example: `  # Show the table
  manscope macros

  # As YAML
  manscope macros -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMacros(cmd)
		},
	}

	return cmd
}

func runMacros(cmd *cobra.Command) error {
	s, err := cmdutil.Load(cmd)
	if err != nil {
		return err
	}

	headers := []string{"NAME", "HANDLER", "FLAGS"}
	var rows [][]string
	for _, tok := range man.AllMacros() {
		d := tok.Descriptor()
		flags := d.Flags.String()
		if flags == "" {
			flags = "-"
		}
		rows = append(rows, []string{tok.String(), d.Handler.String(), flags})
	}

	s.Renderer(cmd.OutOrStdout()).RenderTable(headers, rows)
	return nil
}
