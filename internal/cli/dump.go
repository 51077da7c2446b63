package cli

import (
	"github.com/spf13/cobra"

	"github.com/Azhovan/errtree"
)

func newDumpCommand(g *globalFlags) *cobra.Command {
	var (
		asJSON  bool
		sources bool
		indent  string
	)

	cmd := &cobra.Command{
		Use:   "dump [files...]",
		Short: "Print the effective message catalog",
		Example: `  # Text, one entry per line
  errtree dump errors.yaml

  # Nested JSON with the layer each entry came from
  errtree dump errors.yaml --json --sources`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.loader(cmd, args, false).Load(cmd.Context())
			if err != nil {
				return err
			}

			opts := []errtree.DumpOption{errtree.WithIndent(indent)}
			if asJSON {
				opts = append(opts, errtree.AsJSON())
			}
			if sources {
				opts = append(opts, errtree.WithSources())
			}
			return errtree.DumpMessages(cmd.OutOrStdout(), m, opts...)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output nested JSON")
	cmd.Flags().BoolVar(&sources, "sources", false, "Show the source of each entry")
	cmd.Flags().StringVar(&indent, "indent", "  ", "JSON indentation (empty for compact output)")

	return cmd
}
