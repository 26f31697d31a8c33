package main

import (
	"errors"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// errCheckFailed signals a non-zero exit after diagnostics were printed.
var errCheckFailed = errors.New("mapping documents have errors")

func newResolveCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [paths...]",
		Short: "Resolve descriptors and list the entity hierarchies",
		Example: `  # Resolve every *.hbm.yaml below the working directory
  hbm-source resolve

  # Resolve two directories with the improved naming strategy
  hbm-source resolve mappings/ legacy/ --naming-strategy improved -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, reg, err := c.resolve(cmd.Context(), args, false)
			if err != nil {
				return err
			}

			if res.Diagnostics.HasErrors() {
				_ = renderDiagnostics(cmd.ErrOrStderr(), c.cfg.Output, res.Diagnostics)
				return errCheckFailed
			}

			return renderResolve(cmd.OutOrStdout(), c.cfg.Output, res, reg)
		},
	}
}

func newCheckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report every mapping error without stopping at the first",
		Long: `Check resolves all descriptor documents in collect mode and prints every
diagnostic. It exits non-zero when any error was found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.check(cmd, args)
		},
	}
}

func (c *cli) check(cmd *cobra.Command, args []string) error {
	res, _, err := c.resolve(cmd.Context(), args, true)
	if err != nil {
		return err
	}

	if err := renderDiagnostics(cmd.OutOrStdout(), c.cfg.Output, res.Diagnostics); err != nil {
		return err
	}

	if res.Diagnostics.HasErrors() {
		return errCheckFailed
	}

	return nil
}

func newDumpCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "dump [paths...]",
		Short: "Dump the resolved mapping source model",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, _, err := c.resolve(cmd.Context(), args, false)
			if err != nil {
				return err
			}

			if res.Diagnostics.HasErrors() {
				_ = renderDiagnostics(cmd.ErrOrStderr(), c.cfg.Output, res.Diagnostics)
				return errCheckFailed
			}

			dumper := spew.ConfigState{
				Indent:                  "  ",
				DisablePointerAddresses: true,
				DisableCapacities:       true,
				SortKeys:                true,
			}
			dumper.Fdump(cmd.OutOrStdout(), res.Hierarchies)

			return nil
		},
	}
}
