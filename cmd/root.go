package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "invoicectl",
		Short:         "InvoiceDesk terminal client: catalog, invoices, users and the billing assistant",
		Long:          "invoicectl talks to an InvoiceDesk backend from the terminal: manage the product catalog, drive the billing assistant chat, generate and download invoices, and administer user accounts.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newStatusCmd(app),
		newThemeCmd(app),
		newDashboardCmd(app),
		newProductCmd(app),
		newClientCmd(app),
		newUserCmd(app),
		newChatCmd(app),
		newInvoiceCmd(app),
	)

	return rootCmd
}
