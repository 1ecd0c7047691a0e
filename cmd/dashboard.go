package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	dashboardrender "github.com/invoicedesk/invoicectl/internal/adapters/render/dashboard"
	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newDashboardCmd(app *app) *cobra.Command {
	var (
		asJSON   bool
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show admin metrics: invoices, revenue, users, recent activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !watch {
				var metrics domain.DashboardMetrics
				err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching dashboard metrics...", func(ctx context.Context) error {
					var fetchErr error
					metrics, fetchErr = app.dashboard.Metrics(ctx)
					return fetchErr
				})
				if err != nil {
					return err
				}
				return writeDashboard(cmd, app, metrics, 0, asJSON)
			}

			if interval <= 0 {
				interval = app.watchInterval
			}
			application.Poll(cmd.Context(), interval, func(ctx context.Context) {
				metrics, err := app.dashboard.Metrics(ctx)
				if err != nil {
					// Keep the last rendering on screen; a transient
					// fetch failure only costs one refresh.
					fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
					return
				}
				if err := writeDashboard(cmd, app, metrics, interval, asJSON); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "render failed: %v\n", err)
				}
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval in watch mode")

	return cmd
}

func writeDashboard(cmd *cobra.Command, app *app, metrics domain.DashboardMetrics, refreshIn time.Duration, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(metrics)
	}

	rendered, err := app.dashboardRenderer(metrics, dashboardrender.RenderOptions{
		Now:       app.now(),
		RefreshIn: refreshIn,
	})
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
