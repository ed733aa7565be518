package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a product lookup misses. Callers fall
	// back to manual price entry; it is not an application failure.
	ErrNotFound = errors.New("product not found")

	// ErrDuplicateSKU is returned by the store when an insert collides
	// with an existing SKU.
	ErrDuplicateSKU = errors.New("sku already exists")
)

// Product is a catalog entry used to prefill the unit price when a
// transaction is recorded. Transactions never reference products by id;
// deleting a product leaves existing transactions intact.
type Product struct {
	ID          uuid.UUID
	Name        string
	SKU         string
	SupplyPrice int64 // whole KRW
	CreatedAt   time.Time
}

// ValidationError reports a rejected field on a write operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RowError is a per-row failure collected during a bulk import. Row is
// the 1-based data row number, header excluded.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}
