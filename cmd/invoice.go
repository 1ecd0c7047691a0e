package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newInvoiceCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Generate and download invoices",
	}

	cmd.AddCommand(newInvoiceGenerateCmd(app), newInvoiceDownloadCmd(app))

	return cmd
}

func newInvoiceGenerateCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate an invoice from the current cart",
		RunE: func(cmd *cobra.Command, _ []string) error {
			invoice, err := app.invoices.GenerateFromCart(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Invoice %s generated, total %s (%s)\n",
				invoice.Number, domain.FormatAmount(invoice.GrandTotal), invoice.PDFPath)
			return err
		},
	}
}

func newInvoiceDownloadCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <filename>",
		Short: "Download a generated invoice PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := output
			if target == "" {
				target = filepath.Base(args[0])
			}

			file, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}

			if err := app.invoices.Download(cmd.Context(), args[0], file); err != nil {
				_ = file.Close()
				_ = os.Remove(target)
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close output file: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", target)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path")

	return cmd
}
