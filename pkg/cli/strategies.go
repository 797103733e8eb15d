package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// newStrategiesCommand creates the strategies command
func newStrategiesCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List resolution strategies in the order they run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := plugins.StrategyNames(a.newLoader(nil).Strategies())
			out := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(out).Encode(names)
			}
			_, err := fmt.Fprintln(out, renderStrategies(names))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print strategy names as JSON")
	return cmd
}
