package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/invoicedesk/invoicectl/internal/domain"
	"github.com/invoicedesk/invoicectl/internal/ports"
)

// FilterCategory and FilterStock are the categorical filter names the
// product list understands.
const (
	FilterCategory = "category"
	FilterStock    = "stock"
)

var catalogExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// ProductService syncs the product catalog and applies list queries to
// the local snapshot. Mutations go to the server first and trigger a
// refresh on success.
type ProductService struct {
	gateway ports.ProductGateway
	logger  *zap.Logger

	collection Collection[domain.Product]
}

func NewProductService(gateway ports.ProductGateway, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{gateway: gateway, logger: logger}
}

// Refresh replaces the snapshot with the server's catalog. On failure
// the previous snapshot stays in place and the error is reported.
func (s *ProductService) Refresh(ctx context.Context) error {
	products, err := s.gateway.List(ctx)
	if err != nil {
		s.collection.Fail(err)
		return fmt.Errorf("load products: %w", err)
	}
	s.collection.Replace(products)
	s.logger.Debug("catalog refreshed", zap.Int("count", len(products)))
	return nil
}

func productFields() Fields[domain.Product] {
	return Fields[domain.Product]{
		Text: func(p domain.Product) []string {
			return []string{p.Name}
		},
		Categorical: map[string]func(domain.Product) string{
			FilterCategory: func(p domain.Product) string { return p.Category },
			FilterStock:    func(p domain.Product) string { return string(p.StockLevel()) },
		},
	}
}

// Query derives a filtered, paginated view from the current snapshot.
func (s *ProductService) Query(q ListQuery) View[domain.Product] {
	return Apply(&s.collection, productFields(), q)
}

// SessionCatalog fetches the catalog the assistant is selling from in
// the current session. It does not touch the managed snapshot; the
// session view and the admin catalog are separate lists server-side.
func (s *ProductService) SessionCatalog(ctx context.Context) ([]domain.Product, string, error) {
	products, source, err := s.gateway.SessionCatalog(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("load session catalog: %w", err)
	}
	return products, source, nil
}

// FilterProducts applies the query to an already fetched product list.
func FilterProducts(products []domain.Product, q ListQuery) View[domain.Product] {
	var c Collection[domain.Product]
	c.Replace(products)
	return Apply(&c, productFields(), q)
}

func (s *ProductService) Loaded() bool {
	return s.collection.Loaded()
}

// Find returns the snapshot entry with the given name.
func (s *ProductService) Find(name string) (domain.Product, error) {
	for _, p := range s.collection.Items() {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%q: %w", name, domain.ErrProductNotFound)
}

func (s *ProductService) Add(ctx context.Context, product domain.Product) (string, error) {
	if strings.TrimSpace(product.Name) == "" {
		return "", &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	message, err := s.gateway.Add(ctx, product)
	if err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after add failed", zap.Error(err))
	}
	return message, nil
}

// Update edits the product identified by its current name. The name
// itself may change; originalName tells the server which row to touch.
func (s *ProductService) Update(ctx context.Context, originalName string, product domain.Product) (string, error) {
	if strings.TrimSpace(originalName) == "" {
		return "", &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	message, err := s.gateway.Update(ctx, originalName, product)
	if err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after update failed", zap.Error(err))
	}
	return message, nil
}

func (s *ProductService) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if err := s.gateway.Delete(ctx, name); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after delete failed", zap.Error(err))
	}
	return nil
}

// ImportCatalog uploads a spreadsheet and returns how many products the
// server ingested. Only csv and Excel files are accepted; the check
// runs before any bytes are read.
func (s *ProductService) ImportCatalog(ctx context.Context, filename string, contents io.Reader) (int, string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !catalogExtensions[ext] {
		return 0, "", &domain.ValidationError{Field: "file", Reason: "must be a .csv, .xlsx or .xls file"}
	}
	count, name, err := s.gateway.UploadCatalog(ctx, filename, contents)
	if err != nil {
		return 0, "", err
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after import failed", zap.Error(err))
	}
	return count, name, nil
}
