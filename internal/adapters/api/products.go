package api

import (
	"context"
	"encoding/json"
	"io"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

type ProductGateway struct {
	client *Client
}

var _ ports.ProductGateway = (*ProductGateway)(nil)

func NewProductGateway(client *Client) *ProductGateway {
	return &ProductGateway{client: client}
}

func (g *ProductGateway) List(ctx context.Context) ([]domain.Product, error) {
	var resp struct {
		envelope
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
	}
	if err := g.client.get(ctx, "/api/get_products", &resp); err != nil {
		return nil, err
	}
	if err := resp.err(); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (g *ProductGateway) SessionCatalog(ctx context.Context) ([]domain.Product, string, error) {
	var resp struct {
		envelope
		Products []domain.Product `json:"products"`
		Count    int              `json:"count"`
		Source   string           `json:"source"`
	}
	if err := g.client.get(ctx, "/api/products/all", &resp); err != nil {
		return nil, "", err
	}
	if err := resp.err(); err != nil {
		return nil, "", err
	}
	return resp.Products, resp.Source, nil
}

func (g *ProductGateway) Add(ctx context.Context, product domain.Product) (string, error) {
	var resp envelope
	if err := g.client.post(ctx, "/api/add_product", product, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (g *ProductGateway) Update(ctx context.Context, originalName string, product domain.Product) (string, error) {
	// The edit payload is the product plus the row's pre-edit name.
	encoded, err := json.Marshal(product)
	if err != nil {
		return "", err
	}
	var payload map[string]any
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return "", err
	}
	payload["original_name"] = originalName

	var resp envelope
	if err := g.client.put(ctx, "/api/update_product", payload, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (g *ProductGateway) Delete(ctx context.Context, name string) error {
	var resp envelope
	if err := g.client.delete(ctx, "/api/delete_product", map[string]string{"name": name}, &resp); err != nil {
		return err
	}
	return resp.err()
}

func (g *ProductGateway) UploadCatalog(ctx context.Context, filename string, contents io.Reader) (int, string, error) {
	var resp struct {
		envelope
		ProductCount int    `json:"product_count"`
		Filename     string `json:"filename"`
	}
	if err := g.client.upload(ctx, "/api/upload_catalog", "file", filename, contents, &resp); err != nil {
		return 0, "", err
	}
	if err := resp.err(); err != nil {
		return 0, "", err
	}
	return resp.ProductCount, resp.Filename, nil
}
