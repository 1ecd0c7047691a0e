package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the InvoiceDesk server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			role, err := app.sessions.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", username, role.Label())
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and reset the local session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newRegisterCmd(app *app) *cobra.Command {
	var username, password, email, fullName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sessions.Register(cmd.Context(), username, password, email, fullName); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Account %s created. Run 'invoicectl login' to sign in.\n", username)
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "new account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new account password (8 characters minimum)")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
