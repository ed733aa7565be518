package ledger

import "cmp"

// Totals carries the three settlement numbers for one scope.
// Net is positive when the scope is a net receivable.
type Totals struct {
	LendTotal   int64
	BorrowTotal int64
	Net         int64
}

func (t *Totals) add(tx *Transaction) {
	switch tx.Type {
	case TypeLend:
		t.LendTotal += tx.Total
	case TypeBorrow:
		t.BorrowTotal += tx.Total
	}

	t.Net = t.LendTotal - t.BorrowTotal
}

// Settlement is the monthly aggregate: overall totals plus a per-shop
// breakdown covering only shops with at least one transaction that month.
type Settlement struct {
	Month string
	Totals
	PerShop map[string]Totals
}

// settle aggregates transactions in a single pass. Callers scope the
// input (one month, or everything for cumulative stats).
func settle(month string, txs []*Transaction) *Settlement {
	s := &Settlement{
		Month:   month,
		PerShop: make(map[string]Totals, 8),
	}

	for _, tx := range txs {
		s.Totals.add(tx)

		shop := s.PerShop[tx.Shop]
		shop.add(tx)
		s.PerShop[tx.Shop] = shop
	}

	return s
}

// compareNewestFirst orders transactions by date descending, ties broken
// by creation time descending, so "most recent" views are deterministic.
func compareNewestFirst(a, b *Transaction) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}

	return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
}
