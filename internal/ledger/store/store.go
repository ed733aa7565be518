package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/loroshop/loro/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, date, shop, product_name, quantity, unit_price, total, transaction_type, month, created_at
`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var typeStr string

	if err := s.Scan(
		&tx.ID, &tx.Date, &tx.Shop, &tx.ProductName,
		&tx.Quantity, &tx.UnitPrice, &tx.Total,
		&typeStr, &tx.Month, &tx.CreatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.Type(typeStr)

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (date, shop, product_name, quantity, unit_price, total, transaction_type, month, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Date,
		tx.Shop,
		tx.ProductName,
		tx.Quantity,
		tx.UnitPrice,
		tx.Total,
		tx.Type,
		tx.Month,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// DeleteTransaction hard-deletes the row and reports the month bucket it
// lived in so the caller can invalidate that month's aggregate.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) (string, error) {
	query := `
		DELETE FROM transactions
		WHERE id = $1
		RETURNING month
	`

	var month string

	err := s.db.QueryRowContext(ctx, query, id).Scan(&month)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ledger.ErrNotFound
		}

		return "", fmt.Errorf("deleting transaction: %w", err)
	}

	return month, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.Month != nil {
		query += fmt.Sprintf(" AND month = $%d", argIdx)

		args = append(args, *filter.Month)
		argIdx++
	}

	if filter.Shop != nil {
		query += fmt.Sprintf(" AND shop = $%d", argIdx)

		args = append(args, *filter.Shop)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND transaction_type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}
