package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/adapters/render/listview"
	"github.com/invoicedesk/invoicectl/internal/application"
	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newUserCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Administer user accounts",
	}

	cmd.AddCommand(
		newUserListCmd(app),
		newUserAddCmd(app),
		newUserUpdateCmd(app),
		newUserDeleteCmd(app),
		newUserSectionCmd(app),
	)

	return cmd
}

func (a *app) actorRole(cmd *cobra.Command) (domain.Role, error) {
	status, err := a.status.Status(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("resolve signed-in role: %w", err)
	}
	return requireRole(status)
}

func newUserListCmd(app *app) *cobra.Command {
	var (
		search   string
		role     string
		status   string
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts with directory stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.users.Refresh(cmd.Context()); err != nil {
				return err
			}

			query := application.NewListQuery().
				WithSearch(search).
				WithFilter(application.FilterRole, role).
				WithFilter(application.FilterStatus, status).
				WithPage(page)
			query.PageSize = pageSize
			if pageSize <= 0 {
				query.PageSize = app.pageSize
			}

			view := app.users.Query(query)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.PageItems())
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), listview.Users(view, app.users.Stats()))
			return err
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "match name, username, email or department")
	cmd.Flags().StringVar(&role, "role", "", "role filter: user, admin or super_admin")
	cmd.Flags().StringVar(&status, "status", "", "status filter: active or inactive")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

type userFlags struct {
	user               domain.User
	role               string
	status             string
	mustChangePassword bool
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user.Username, "username", "", "account username")
	cmd.Flags().StringVar(&f.user.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&f.user.FullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&f.user.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.user.Department, "department", "", "department")
	cmd.Flags().StringVar(&f.role, "role", string(domain.RoleUser), "account role")
	cmd.Flags().StringVar(&f.status, "status", string(domain.UserStatusActive), "account status")
	cmd.Flags().BoolVar(&f.mustChangePassword, "must-change-password", false, "force a password change on next sign-in")
}

func (f *userFlags) build() domain.User {
	u := f.user
	u.Role = domain.Role(f.role)
	u.Status = domain.UserStatus(f.status)
	u.MustChangePassword = f.mustChangePassword
	return u
}

func newUserAddCmd(app *app) *cobra.Command {
	flags := &userFlags{}
	var password string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := app.actorRole(cmd)
			if err != nil {
				return err
			}
			if err := app.users.Create(cmd.Context(), actor, flags.build(), password); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Created user %s\n", flags.user.Username)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&password, "password", "", "initial password (8 characters minimum)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newUserUpdateCmd(app *app) *cobra.Command {
	flags := &userFlags{}
	var newPassword string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse user id %q: %w", args[0], err)
			}
			actor, err := app.actorRole(cmd)
			if err != nil {
				return err
			}
			if err := app.users.Update(cmd.Context(), actor, id, flags.build(), newPassword); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated user %d\n", id)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&newPassword, "new-password", "", "replacement password (empty keeps the current one)")

	return cmd
}

func newUserSectionCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "section",
		Short: "Dump the server-rendered user management fragment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			html, err := app.users.Section(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}
}

func newUserDeleteCmd(app *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse user id %q: %w", args[0], err)
			}
			if !yes {
				return fmt.Errorf("refusing to delete user %d without --yes", id)
			}
			actor, err := app.actorRole(cmd)
			if err != nil {
				return err
			}
			if err := app.users.Delete(cmd.Context(), actor, id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d\n", id)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")

	return cmd
}
