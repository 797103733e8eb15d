package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/platinummonkey/pluginloader/pkg/plugins"
	"github.com/platinummonkey/pluginloader/pkg/watch"
)

// newWatchCommand creates the watch command
func newWatchCommand(a *app) *cobra.Command {
	var (
		asJSON   bool
		verbose  bool
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "watch [identifier...]",
		Short: "Re-resolve plugins whenever the dependency tree changes",
		Long: `Watch the working directory, its parent, and the dependency directory, and
re-resolve every identifier after each burst of changes. Only reports whose
outcome changed are printed.`,
		Example: `  # Watch two plugins, and rescan every five minutes
  pluginctl watch --schedule "*/5 * * * *" eslint-plugin @scope/formatter`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.identifiers(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schedule") {
				a.cfg.Watch.Schedule = schedule
			}

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			onReport := func(r plugins.Report) {
				if asJSON {
					enc.Encode(r)
					return
				}
				fmt.Fprintln(out, renderReport(r, verbose))
			}

			metrics := a.newMetrics()
			w, err := watch.New(a.newLoader(metrics), ids, watch.Options{
				Debounce: a.cfg.Watch.Debounce,
				Schedule: a.cfg.Watch.Schedule,
				Batch:    a.batchOptions(),
				Log:      a.logger,
				Metrics:  metrics,
				OnReport: onReport,
			})
			if err != nil {
				return err
			}
			defer w.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Infof("Watching %d plugin(s)", len(ids))
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON report per line")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every strategy attempt")
	cmd.Flags().StringVar(&schedule, "schedule", "", "Cron expression for periodic rescans")
	return cmd
}
