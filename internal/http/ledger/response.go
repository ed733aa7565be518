package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/loroshop/loro/internal/ledger"
)

type transactionResponse struct {
	ID          uuid.UUID   `json:"id"`
	Date        string      `json:"date"`
	Shop        string      `json:"shop"`
	ProductName string      `json:"product_name"`
	Quantity    int64       `json:"quantity"`
	UnitPrice   int64       `json:"unit_price"`
	Total       int64       `json:"total"`
	Type        ledger.Type `json:"type"`
	Month       string      `json:"month"`
	CreatedAt   time.Time   `json:"created_at"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Shop:        tx.Shop,
		ProductName: tx.ProductName,
		Quantity:    tx.Quantity,
		UnitPrice:   tx.UnitPrice,
		Total:       tx.Total,
		Type:        tx.Type,
		Month:       tx.Month,
		CreatedAt:   tx.CreatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

type totalsResponse struct {
	LendTotal   int64 `json:"lend_total"`
	BorrowTotal int64 `json:"borrow_total"`
	Net         int64 `json:"net"`
}

type settlementResponse struct {
	Month       string                    `json:"month"`
	LendTotal   int64                     `json:"lend_total"`
	BorrowTotal int64                     `json:"borrow_total"`
	Net         int64                     `json:"net"`
	PerShop     map[string]totalsResponse `json:"per_shop"`
}

func toTotals(t ledger.Totals) totalsResponse {
	return totalsResponse{
		LendTotal:   t.LendTotal,
		BorrowTotal: t.BorrowTotal,
		Net:         t.Net,
	}
}

func toSettlementResponse(s *ledger.Settlement) settlementResponse {
	resp := settlementResponse{
		Month:       s.Month,
		LendTotal:   s.Totals.LendTotal,
		BorrowTotal: s.Totals.BorrowTotal,
		Net:         s.Totals.Net,
		PerShop:     make(map[string]totalsResponse, len(s.PerShop)),
	}

	for shop, totals := range s.PerShop {
		resp.PerShop[shop] = toTotals(totals)
	}

	return resp
}

func toShopStatsResponse(stats map[string]ledger.Totals) map[string]totalsResponse {
	resp := make(map[string]totalsResponse, len(stats))
	for shop, totals := range stats {
		resp[shop] = toTotals(totals)
	}

	return resp
}
