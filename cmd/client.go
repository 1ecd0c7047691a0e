package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/domain"
)

func newClientCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage the billing recipient for the current cart",
	}

	cmd.AddCommand(newClientShowCmd(app), newClientSaveCmd(app))

	return cmd
}

func newClientShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved billing recipient",
		RunE: func(cmd *cobra.Command, _ []string) error {
			record, err := app.clients.Get(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(record)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:            %s\n", record.Name)
			fmt.Fprintf(out, "email:           %s\n", record.Email)
			fmt.Fprintf(out, "phone:           %s\n", record.Phone)
			fmt.Fprintf(out, "address:         %s\n", record.Address)
			fmt.Fprintf(out, "gst number:      %s\n", record.GSTNumber)
			fmt.Fprintf(out, "place of supply: %s\n", record.PlaceOfSupply)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

func newClientSaveCmd(app *app) *cobra.Command {
	var record domain.ClientRecord

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the billing recipient for invoice generation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if record.Name == "" {
				return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
			}
			if err := app.clients.Save(cmd.Context(), record); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved billing details for %s\n", record.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&record.Name, "name", "", "client name")
	cmd.Flags().StringVar(&record.Email, "email", "", "client email")
	cmd.Flags().StringVar(&record.Phone, "phone", "", "client phone")
	cmd.Flags().StringVar(&record.Address, "address", "", "billing address")
	cmd.Flags().StringVar(&record.GSTNumber, "gst-number", "", "GST identification number")
	cmd.Flags().StringVar(&record.PlaceOfSupply, "place-of-supply", "", "place of supply for GST")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
