package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"hbm-source/internal/config"
	"hbm-source/internal/plan"
	"hbm-source/internal/registry"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "hbm-source",
		Short: "Resolve hbm mapping descriptors into a mapping source model",
		Long: `hbm-source reads hbm-style mapping descriptor documents and resolves them
into entity hierarchies, attribute sources and query metadata.

Descriptor files are found by expanding the include patterns below every
directory argument (default: the working directory).`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			return c.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: ./hbm-source.yaml)")
	flags.StringSlice("include", []string{config.DefaultInclude}, "Glob patterns of descriptor files below directory arguments")
	flags.String("naming-strategy", config.DefaultNamingStrategy, "Physical naming strategy (default|improved)")
	flags.String("default-package", "", "Package prefixed to unqualified class names")
	flags.String("default-schema", "", "Schema of tables that declare none")
	flags.String("default-catalog", "", "Catalog of tables that declare none")
	flags.String("default-cascade", config.DefaultCascade, "Cascade of associations that declare none")
	flags.String("default-access", config.DefaultAccess, "Attribute access strategy")
	flags.Bool("associations-lazy", true, "Associations and classes are lazy unless declared otherwise")
	flags.Bool("auto-import", true, "Register unqualified entity names as query imports")
	flags.Bool("quote-identifiers", false, "Quote every table name")
	flags.Bool("fail-fast", false, "Abort at the first mapping error")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.StringP("output", "o", config.DefaultOutput, "Output format (table|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("naming-strategy", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"default", "improved"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newResolveCmd(c))
	rootCmd.AddCommand(newCheckCmd(c))
	rootCmd.AddCommand(newDumpCmd(c))
	rootCmd.AddCommand(newWatchCmd(c))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load layers the configuration and sets up logging.
func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if cfg.ConfigFile != "" {
		c.logger.Debug("using config file", "path", cfg.ConfigFile)
	}

	return nil
}

// resolve runs one resolution over the documents named by args. collect
// forces collect mode regardless of the fail_fast setting.
func (c *cli) resolve(ctx context.Context, args []string, collect bool) (*plan.Result, *registry.InMemory, error) {
	paths, err := plan.Expand(args, c.cfg.Include)
	if err != nil {
		return nil, nil, err
	}

	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no mapping documents found (include: %v)", c.cfg.Include)
	}

	defaults, err := c.cfg.MappingDefaults()
	if err != nil {
		return nil, nil, err
	}

	reg := registry.NewInMemory()
	opts := plan.Options{FailFast: c.cfg.FailFast && !collect}

	res, err := plan.NewResolver(defaults, reg, c.logger, opts).Run(ctx, paths)

	return res, reg, err
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hbm-source v%s (%s)\n", Version, GitCommit)
		},
	}
}
