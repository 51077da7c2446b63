package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Azhovan/errtree"
	"github.com/Azhovan/errtree/catalogenv"
	"github.com/Azhovan/errtree/catalogfile"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	verbose    bool
	noDefaults bool
	envPrefix  string
	lenient    bool
}

// NewRootCommand creates the root command for errtree.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "errtree",
		Short: "errtree - validation message catalogs and error trees",
		Long: `errtree checks and inspects message catalogs and previews the messages
they produce for predicate failures.

Catalogs are layered in order: the built-in English messages, each file
given on the command line (YAML, JSON or TOML), then environment variables
with the --env-prefix prefix. Later layers override earlier ones.`,
		SilenceUsage:  true, // Don't show usage on errors
		SilenceErrors: true, // main prints the error
	}

	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&g.noDefaults, "no-defaults", false, "Do not include the built-in catalog")
	cmd.PersistentFlags().StringVar(&g.envPrefix, "env-prefix", catalogenv.DefaultPrefix, "Environment variable prefix for overrides (empty disables)")
	cmd.PersistentFlags().BoolVar(&g.lenient, "lenient", false, "Accept keys outside the catalog key grammar")

	cmd.AddCommand(
		newCheckCommand(g),
		newDumpCommand(g),
		newRenderCommand(g),
	)

	return cmd
}

// logger writes to the command's stderr. Debug level with --verbose.
func (g *globalFlags) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// loader layers the built-in catalog, files and environment overrides.
func (g *globalFlags) loader(cmd *cobra.Command, files []string, watch bool) *errtree.Loader {
	logger := g.logger(cmd)

	loader := errtree.NewLoader().WithLogger(logger).Strict(!g.lenient)
	if !g.noDefaults {
		loader.WithSource(errtree.DefaultSource())
	}
	for _, path := range files {
		loader.WithSource(catalogfile.New(path, catalogfile.Options{
			Required: true,
			Watch:    watch,
			Logger:   logger,
		}))
	}
	if g.envPrefix != "" {
		loader.WithSource(catalogenv.New(catalogenv.Options{Prefix: g.envPrefix}))
	}
	return loader
}
