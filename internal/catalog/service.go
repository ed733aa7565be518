package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateProduct(ctx context.Context, p *Product) error
	// UpsertProduct inserts the product, or overwrites name and supply
	// price when the SKU already exists.
	UpsertProduct(ctx context.Context, p *Product) error
	FindProductByName(ctx context.Context, name string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	DeleteAllProducts(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	SKU         string
	SupplyPrice int64
}

func validate(params CreateParams) error {
	if params.Name == "" {
		return &ValidationError{Field: "product_name", Reason: "required"}
	}

	if params.SKU == "" {
		return &ValidationError{Field: "sku", Reason: "required"}
	}

	if params.SupplyPrice < 0 {
		return &ValidationError{Field: "supply_price", Reason: "must not be negative"}
	}

	return nil
}

// Add creates a single product. An existing SKU is a validation error
// here; only the bulk import path overwrites.
func (s *Service) Add(ctx context.Context, params CreateParams) (*Product, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	p := &Product{
		Name:        params.Name,
		SKU:         params.SKU,
		SupplyPrice: params.SupplyPrice,
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateSKU) {
			return nil, &ValidationError{Field: "sku", Reason: "already exists"}
		}

		return nil, err
	}

	return p, nil
}

// Row is one parsed CSV import row. Index is the 1-based data row
// number used in failure reports.
type Row struct {
	Index       int
	Name        string
	SKU         string
	SupplyPrice int64
}

// ImportResult reports a partial-tolerant bulk import: every row is
// attempted, failures are collected instead of aborting.
type ImportResult struct {
	Imported []*Product
	Failures []RowError
}

// ImportBatch validates and upserts each row independently. Duplicate
// SKUs overwrite the stored name and supply price, mirroring how shop
// staff re-export the whole sheet after editing it.
func (s *Service) ImportBatch(ctx context.Context, rows []Row) (*ImportResult, error) {
	result := &ImportResult{}

	for _, row := range rows {
		if err := validate(CreateParams{Name: row.Name, SKU: row.SKU, SupplyPrice: row.SupplyPrice}); err != nil {
			result.Failures = append(result.Failures, RowError{Row: row.Index, Reason: err.Error()})
			continue
		}

		p := &Product{
			Name:        row.Name,
			SKU:         row.SKU,
			SupplyPrice: row.SupplyPrice,
		}

		if err := s.repo.UpsertProduct(ctx, p); err != nil {
			return nil, err
		}

		result.Imported = append(result.Imported, p)
	}

	return result, nil
}

// LookupByName resolves a product by exact name for unit price prefill.
func (s *Service) LookupByName(ctx context.Context, name string) (*Product, error) {
	if name == "" {
		return nil, &ValidationError{Field: "product_name", Reason: "required"}
	}

	return s.repo.FindProductByName(ctx, name)
}

// List returns all products in creation order.
func (s *Service) List(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProduct(ctx, id)
}

// ClearAll deletes every product. Idempotent, and never touches the
// transaction ledger.
func (s *Service) ClearAll(ctx context.Context) error {
	return s.repo.DeleteAllProducts(ctx)
}
