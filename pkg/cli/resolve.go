package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

type resolveOptions struct {
	json         bool
	verbose      bool
	allowMissing bool
}

// newResolveCommand creates the resolve command
func newResolveCommand(a *app) *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve [identifier...]",
		Short: "Resolve plugin identifiers and report which strategy succeeded",
		Long: `Resolve each identifier through the full strategy chain and report the
winning strategy, the path it loaded, and the plugin name. Identifiers default
to the configured plugin set.`,
		Example: `  # Resolve one plugin
  pluginctl resolve eslint-plugin

  # Machine-readable reports for several plugins
  pluginctl resolve --json eslint-plugin @scope/formatter

  # Show every strategy attempted
  pluginctl resolve -v eslint-plugin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, a, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Print reports as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "List every strategy attempt")
	cmd.Flags().BoolVar(&opts.allowMissing, "allow-missing", false, "Exit zero even when a plugin is not found")

	return cmd
}

func runResolve(cmd *cobra.Command, a *app, opts *resolveOptions, args []string) error {
	ids, err := a.identifiers(args)
	if err != nil {
		return err
	}

	loader := a.newLoader(nil)
	results := plugins.LoadAll(cmd.Context(), loader, ids, a.batchOptions())
	reports := plugins.Reports(results)

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return fmt.Errorf("failed to encode reports: %w", err)
		}
	} else {
		for i, report := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, renderReport(report, opts.verbose))
		}
	}

	if opts.allowMissing {
		return nil
	}
	for _, r := range results {
		if !r.Found() {
			return ErrMissingPlugins
		}
	}
	return nil
}
