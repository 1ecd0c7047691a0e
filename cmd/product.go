package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invoicedesk/invoicectl/internal/adapters/render/listview"
	"github.com/invoicedesk/invoicectl/internal/application"
)

func newProductCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}

	cmd.AddCommand(
		newProductListCmd(app),
		newProductAvailableCmd(app),
		newProductBrowseCmd(app),
		newProductAddCmd(app),
		newProductUpdateCmd(app),
		newProductDeleteCmd(app),
		newProductImportCmd(app),
	)

	return cmd
}

func newProductListCmd(app *app) *cobra.Command {
	var (
		search   string
		category string
		stock    string
		page     int
		pageSize int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.products.Refresh(cmd.Context()); err != nil {
				return err
			}

			query := application.NewListQuery().
				WithSearch(search).
				WithFilter(application.FilterCategory, category).
				WithFilter(application.FilterStock, stock).
				WithPage(page)
			query.PageSize = pageSize
			if pageSize <= 0 {
				query.PageSize = app.pageSize
			}

			view := app.products.Query(query)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.PageItems())
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), listview.Products(view))
			return err
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().StringVar(&category, "category", "", "category filter (empty or 'all' disables)")
	cmd.Flags().StringVar(&stock, "stock", "", "stock filter: in-stock, low-stock or out-of-stock")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

func newProductAvailableCmd(app *app) *cobra.Command {
	var (
		search string
		page   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Show the catalog the assistant sells from in this session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, source, err := app.products.SessionCatalog(cmd.Context())
			if err != nil {
				return err
			}

			view := application.FilterProducts(products, application.NewListQuery().
				WithSearch(search).
				WithPage(page))

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.PageItems())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalog source: %s\n", source)
			_, err = fmt.Fprintln(out, listview.Products(view))
			return err
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output raw JSON")

	return cmd
}

// productFormFlags holds raw string inputs for the numeric columns so
// the shared coercion policy applies, the same as typing into a form.
type productFormFlags struct {
	name               string
	price              string
	gstRate            string
	stock              string
	category           string
	installationCharge string
	serviceCharge      string
	shippingCharge     string
	handlingFee        string
}

func (f *productFormFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "product name")
	cmd.Flags().StringVar(&f.price, "price", "0", "unit price")
	cmd.Flags().StringVar(&f.gstRate, "gst-rate", "18", "GST percentage")
	cmd.Flags().StringVar(&f.stock, "stock", "0", "units in stock")
	cmd.Flags().StringVar(&f.category, "category", "", "category")
	cmd.Flags().StringVar(&f.installationCharge, "installation-charge", "0", "installation charge")
	cmd.Flags().StringVar(&f.serviceCharge, "service-charge", "0", "service charge")
	cmd.Flags().StringVar(&f.shippingCharge, "shipping-charge", "0", "shipping charge")
	cmd.Flags().StringVar(&f.handlingFee, "handling-fee", "0", "handling fee")
}

func (f *productFormFlags) form() *application.Form {
	return (&application.Form{}).
		SetText("name", f.name).
		SetNumeric("price", f.price).
		SetNumeric("gst_rate", f.gstRate).
		SetInteger("stock", f.stock).
		SetText("category", f.category).
		SetNumeric("Installation Charge", f.installationCharge).
		SetNumeric("Service Charge", f.serviceCharge).
		SetNumeric("Shipping Charge", f.shippingCharge).
		SetNumeric("Handling Fee", f.handlingFee)
}

func newProductAddCmd(app *app) *cobra.Command {
	flags := &productFormFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := app.forms.Submit(cmd.Context(), http.MethodPost, "/api/add_product", flags.form(), app.products.Refresh)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("add product: %s", result.Error)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductUpdateCmd(app *app) *cobra.Command {
	flags := &productFormFlags{}
	var originalName string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Edit an existing product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.name == "" {
				flags.name = originalName
			}
			form := flags.form().SetText("original_name", originalName)

			result, err := app.forms.Submit(cmd.Context(), http.MethodPut, "/api/update_product", form, app.products.Refresh)
			if err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("update product: %s", result.Error)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return err
		},
	}

	cmd.Flags().StringVar(&originalName, "product", "", "current name of the product to edit")
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func newProductDeleteCmd(app *app) *cobra.Command {
	var name string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a product from the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %q without --yes", name)
			}
			if err := app.products.Delete(cmd.Context(), name); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductImportCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Upload a catalog spreadsheet (.csv, .xlsx, .xls)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open catalog file: %w", err)
			}
			defer func() { _ = file.Close() }()

			count, filename, err := app.products.ImportCatalog(cmd.Context(), filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products from %s\n", count, filename)
			return err
		},
	}
}
