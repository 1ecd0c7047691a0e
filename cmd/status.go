package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	statusrender "github.com/invoicedesk/invoicectl/internal/adapters/render/status"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show server reachability and who is signed in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := app.status.Status(cmd.Context())
			if err != nil {
				// An unreachable server is still a reportable status.
				app.logger.Debug("status probe failed")
				status = domain.ServerStatus{}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(status)
			}

			session, err := app.sessions.Current(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := app.statusRenderer(status, statusrender.RenderOptions{
				BaseURL: app.baseURL,
				Theme:   session.Theme,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

func newThemeCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show the current display theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.sessions.Current(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.Theme.Label())
			return err
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		RunE: func(cmd *cobra.Command, _ []string) error {
			theme, err := app.sessions.ToggleTheme(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Theme is now %s\n", theme.Label())
			return err
		},
	})

	return cmd
}
