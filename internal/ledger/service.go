package ledger

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	// DeleteTransaction removes the record and returns its month bucket,
	// or ErrNotFound if the id is unknown.
	DeleteTransaction(ctx context.Context, id uuid.UUID) (string, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}

// DefaultRecentLimit is the number of transactions shown in recent
// activity views when the caller does not ask for a specific count.
const DefaultRecentLimit = 10

type Service struct {
	repo      Repository
	shops     map[string]struct{}
	shopOrder []string

	// Month-keyed settlement cache, invalidated on any write touching
	// that month. Guarded because the TUI issues reads from tea commands.
	mu    sync.Mutex
	cache map[string]*Settlement
}

// NewService creates a ledger service. shops is the partner allow-list
// that incoming transactions are validated against.
func NewService(repo Repository, shops []string) *Service {
	allowed := make(map[string]struct{}, len(shops))
	for _, s := range shops {
		allowed[s] = struct{}{}
	}

	return &Service{
		repo:      repo,
		shops:     allowed,
		shopOrder: slices.Clone(shops),
		cache:     make(map[string]*Settlement),
	}
}

type CreateParams struct {
	Date        time.Time
	Shop        string
	ProductName string
	Quantity    int64
	UnitPrice   int64
	Type        Type
}

type ListFilter struct {
	Month *string
	Shop  *string
	Type  *Type
	Limit int
}

// Add validates the params, derives Total and Month, and stores the
// record. On any validation failure the ledger is left unchanged.
func (s *Service) Add(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := s.validate(params); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Date:        params.Date,
		Shop:        params.Shop,
		ProductName: params.ProductName,
		Quantity:    params.Quantity,
		UnitPrice:   params.UnitPrice,
		Total:       params.Quantity * params.UnitPrice,
		Type:        params.Type,
		Month:       MonthOf(params.Date),
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	s.invalidate(tx.Month)

	return tx, nil
}

func (s *Service) validate(params CreateParams) error {
	if params.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "required"}
	}

	if _, ok := s.shops[params.Shop]; !ok {
		return &ValidationError{Field: "shop", Reason: fmt.Sprintf("%q is not a known partner shop", params.Shop)}
	}

	if params.ProductName == "" {
		return &ValidationError{Field: "product_name", Reason: "required"}
	}

	if params.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	if params.UnitPrice < 0 {
		return &ValidationError{Field: "unit_price", Reason: "must not be negative"}
	}

	if params.Type != TypeLend && params.Type != TypeBorrow {
		return &ValidationError{Field: "type", Reason: "must be lend or borrow"}
	}

	return nil
}

// Delete hard-deletes a transaction and invalidates its month's cached
// settlement. Returns ErrNotFound for unknown ids.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	month, err := s.repo.DeleteTransaction(ctx, id)
	if err != nil {
		return err
	}

	s.invalidate(month)

	return nil
}

// List returns transactions matching the filter, newest first. All set
// filter fields are ANDed; a zero Limit means no truncation.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.Month != nil {
		if _, err := time.Parse(MonthFormat, *filter.Month); err != nil {
			return nil, &ValidationError{Field: "month", Reason: "want YYYY-MM"}
		}
	}

	txs, err := s.repo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}

	// The store already orders, but equal dates with equal creation
	// times would otherwise make "most recent" views flap.
	slices.SortStableFunc(txs, compareNewestFirst)

	if filter.Limit > 0 && len(txs) > filter.Limit {
		txs = txs[:filter.Limit]
	}

	return txs, nil
}

// RecentActivity returns the most recent transactions across all months.
func (s *Service) RecentActivity(ctx context.Context, limit int) ([]*Transaction, error) {
	if limit <= 0 {
		return nil, &ValidationError{Field: "limit", Reason: "must be positive"}
	}

	return s.List(ctx, ListFilter{Limit: limit})
}

// MonthlySettlement computes the settlement for one month bucket. A
// month with no transactions yields zero totals and an empty per-shop
// map. Results are cached until a write touches the month.
func (s *Service) MonthlySettlement(ctx context.Context, month string) (*Settlement, error) {
	if _, err := time.Parse(MonthFormat, month); err != nil {
		return nil, &ValidationError{Field: "month", Reason: "want YYYY-MM"}
	}

	s.mu.Lock()
	cached, ok := s.cache[month]
	s.mu.Unlock()

	if ok {
		return cached, nil
	}

	txs, err := s.repo.ListTransactions(ctx, ListFilter{Month: &month})
	if err != nil {
		return nil, err
	}

	settlement := settle(month, txs)

	s.mu.Lock()
	s.cache[month] = settlement
	s.mu.Unlock()

	return settlement, nil
}

// ShopCumulativeStats aggregates lifetime-to-date totals per shop,
// unscoped by month.
func (s *Service) ShopCumulativeStats(ctx context.Context) (map[string]Totals, error) {
	txs, err := s.repo.ListTransactions(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	return settle("", txs).PerShop, nil
}

// Shops returns the configured partner allow-list in configured order.
func (s *Service) Shops() []string {
	return slices.Clone(s.shopOrder)
}

func (s *Service) invalidate(month string) {
	s.mu.Lock()
	delete(s.cache, month)
	s.mu.Unlock()
}
