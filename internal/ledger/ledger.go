package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type represents the direction of a lending transaction.
type Type string

const (
	// TypeLend means we handed stock to a partner shop: they owe us.
	TypeLend Type = "lend"
	// TypeBorrow means we took stock from a partner shop: we owe them.
	TypeBorrow Type = "borrow"
)

// MonthFormat is the layout of the month bucket key, e.g. "2026-03".
const MonthFormat = "2006-01"

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// Transaction is a single lend or borrow of stock with a partner shop.
// Total and Month are derived from the other fields on write and are
// never accepted from callers.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time
	Shop        string
	ProductName string
	Quantity    int64
	UnitPrice   int64 // whole KRW
	Total       int64 // Quantity * UnitPrice
	Type        Type
	Month       string // year-month bucket of Date
	CreatedAt   time.Time
}

// ValidationError reports a rejected field on a write operation.
// The ledger is left untouched when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MonthOf returns the month bucket key for a date.
func MonthOf(date time.Time) string {
	return date.Format(MonthFormat)
}
