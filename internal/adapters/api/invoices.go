package api

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type InvoiceGateway struct {
	client    *Client
	sessionID func() string
}

var _ ports.InvoiceGateway = (*InvoiceGateway)(nil)

func NewInvoiceGateway(client *Client, sessionID func() string) *InvoiceGateway {
	return &InvoiceGateway{client: client, sessionID: sessionID}
}

func (g *InvoiceGateway) GenerateFromCart(ctx context.Context) (domain.Invoice, error) {
	var resp struct {
		envelope
		PDFPath       string `json:"pdf_path"`
		InvoiceNumber string `json:"invoice_number"`
		Invoice       struct {
			Summary struct {
				GrandTotal float64 `json:"grand_total"`
			} `json:"summary"`
		} `json:"invoice"`
	}
	payload := map[string]string{}
	if g.sessionID != nil {
		payload["session_id"] = g.sessionID()
	}
	if err := g.client.post(ctx, "/api/generate_invoice_from_cart", payload, &resp); err != nil {
		return domain.Invoice{}, err
	}
	if err := resp.err(); err != nil {
		return domain.Invoice{}, err
	}
	return domain.Invoice{
		Number:     resp.InvoiceNumber,
		PDFPath:    resp.PDFPath,
		GrandTotal: resp.Invoice.Summary.GrandTotal,
	}, nil
}

func (g *InvoiceGateway) Download(ctx context.Context, filename string, dst io.Writer) error {
	path := fmt.Sprintf("/api/download_invoice/%s", url.PathEscape(filename))
	return g.client.download(ctx, path, dst)
}
