package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/loroshop/loro/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const uniqueViolation = "23505"

func (s *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	query := `
		INSERT INTO products (product_name, sku, supply_price, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, p.Name, p.SKU, p.SupplyPrice).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return catalog.ErrDuplicateSKU
		}

		return fmt.Errorf("creating product: %w", err)
	}

	return nil
}

func (s *Store) UpsertProduct(ctx context.Context, p *catalog.Product) error {
	query := `
		INSERT INTO products (product_name, sku, supply_price, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (sku) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			supply_price = EXCLUDED.supply_price
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, p.Name, p.SKU, p.SupplyPrice).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}

	return nil
}

func (s *Store) FindProductByName(ctx context.Context, name string) (*catalog.Product, error) {
	query := `
		SELECT id, product_name, sku, supply_price, created_at
		FROM products
		WHERE product_name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p catalog.Product

	err := s.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &p.SKU, &p.SupplyPrice, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("finding product: %w", err)
	}

	return &p, nil
}

func (s *Store) ListProducts(ctx context.Context) ([]*catalog.Product, error) {
	query := `
		SELECT id, product_name, sku, supply_price, created_at
		FROM products
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product

	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.SupplyPrice, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if affected == 0 {
		return catalog.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteAllProducts(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clearing products: %w", err)
	}

	return nil
}
