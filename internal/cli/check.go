package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Azhovan/errtree"
)

func newCheckCommand(g *globalFlags) *cobra.Command {
	var (
		required []string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Load and validate message catalogs",
		Long: `Check loads the layered catalog and reports every invalid entry:
non-string values, keys outside the catalog grammar (unless --lenient),
malformed %{token} references and required predicates without a template.

With --watch the files are watched and re-checked on every change until
interrupted.`,
		Example: `  # Validate a catalog file on top of the built-in messages
  errtree check errors.yaml

  # Require templates for specific predicates
  errtree check errors.yaml --require filled?,size?

  # Re-check on every save
  errtree check errors.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := g.loader(cmd, args, watch).WithRequired(required...)
			out := cmd.OutOrStdout()

			if !watch {
				m, err := loader.Load(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "[OK] %d entries\n", m.Len())
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchCatalog(ctx, cmd, loader)
		},
	}

	cmd.Flags().StringSliceVar(&required, "require", nil, "Predicates that must have a template (comma separated)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch files and re-check on change")

	return cmd
}

// watchCatalog prints one line per reloaded snapshot or failed reload until
// ctx ends or every source stops watching.
func watchCatalog(ctx context.Context, cmd *cobra.Command, loader *errtree.Loader) error {
	snapshots, errs, err := loader.Watch(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	for snapshots != nil || errs != nil {
		select {
		case s, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			fmt.Fprintf(out, "[OK] version %d: %d entries (%s)\n", s.Version, s.Messages.Len(), s.Source)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			fmt.Fprintf(out, "[FAIL] %v\n", err)
		}
	}
	return nil
}
