package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loroshop/loro/internal/ledger"
)

func tx(shop string, typ ledger.Type, total int64, d time.Time) *ledger.Transaction {
	return &ledger.Transaction{
		ID:        uuid.New(),
		Date:      d,
		Shop:      shop,
		Quantity:  1,
		UnitPrice: total,
		Total:     total,
		Type:      typ,
		Month:     ledger.MonthOf(d),
		CreatedAt: d,
	}
}

func TestService_MonthlySettlement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	month := "2026-03"
	d := date(2026, 3, 5)
	txs := []*ledger.Transaction{
		tx("여진", ledger.TypeLend, 10000, d),
		tx("여진", ledger.TypeBorrow, 4000, d),
		tx("온리", ledger.TypeLend, 3000, d),
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return(txs, nil)

	svc := ledger.NewService(repo, testShops)
	got, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)

	assert.Equal(t, month, got.Month)
	assert.Equal(t, int64(13000), got.LendTotal)
	assert.Equal(t, int64(4000), got.BorrowTotal)
	assert.Equal(t, int64(9000), got.Net)

	require.Contains(t, got.PerShop, "여진")
	assert.Equal(t, ledger.Totals{LendTotal: 10000, BorrowTotal: 4000, Net: 6000}, got.PerShop["여진"])
	assert.Equal(t, ledger.Totals{LendTotal: 3000, Net: 3000}, got.PerShop["온리"])

	// Per-shop totals always sum to the month totals.
	var sum ledger.Totals
	for _, totals := range got.PerShop {
		sum.LendTotal += totals.LendTotal
		sum.BorrowTotal += totals.BorrowTotal
		sum.Net += totals.Net
	}

	assert.Equal(t, got.Totals, sum)
}

func TestService_MonthlySettlement_EmptyMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	month := "2025-12"
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return(nil, nil)

	svc := ledger.NewService(repo, testShops)
	got, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)

	assert.Equal(t, ledger.Totals{}, got.Totals)
	assert.Empty(t, got.PerShop)
}

func TestService_MonthlySettlement_InvalidMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl), testShops)

	for _, month := range []string{"2026-3", "202603", "March 2026", ""} {
		_, err := svc.MonthlySettlement(context.Background(), month)

		var vErr *ledger.ValidationError
		require.ErrorAs(t, err, &vErr, "month %q", month)
		assert.Equal(t, "month", vErr.Field)
	}
}

func TestService_MonthlySettlement_Cached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	month := "2026-03"
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return([]*ledger.Transaction{
			tx("여진", ledger.TypeLend, 5000, date(2026, 3, 1)),
		}, nil).
		Times(1)

	svc := ledger.NewService(repo, testShops)

	first, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)

	second, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_MonthlySettlement_InvalidatedByDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	month := "2026-03"
	d := date(2026, 3, 5)
	lend := tx("여진", ledger.TypeLend, 10000, d)
	borrow := tx("여진", ledger.TypeBorrow, 4000, d)

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return([]*ledger.Transaction{lend, borrow}, nil)
	repo.EXPECT().
		DeleteTransaction(gomock.Any(), lend.ID).
		Return(month, nil)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return([]*ledger.Transaction{borrow}, nil)

	svc := ledger.NewService(repo, testShops)

	before, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{LendTotal: 10000, BorrowTotal: 4000, Net: 6000}, before.PerShop["여진"])

	require.NoError(t, svc.Delete(context.Background(), lend.ID))

	after, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{LendTotal: 0, BorrowTotal: 4000, Net: -4000}, after.PerShop["여진"])
}

func TestService_MonthlySettlement_InvalidatedByAdd(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	month := "2026-03"
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return(nil, nil)
	repo.EXPECT().
		CreateTransaction(gomock.Any(), gomock.Any()).
		Return(nil)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Month: &month}).
		Return([]*ledger.Transaction{
			tx("소연", ledger.TypeBorrow, 2000, date(2026, 3, 20)),
		}, nil)

	svc := ledger.NewService(repo, testShops)

	before, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{}, before.Totals)

	_, err = svc.Add(context.Background(), ledger.CreateParams{
		Date:        date(2026, 3, 20),
		Shop:        "소연",
		ProductName: "팔찌",
		Quantity:    2,
		UnitPrice:   1000,
		Type:        ledger.TypeBorrow,
	})
	require.NoError(t, err)

	after, err := svc.MonthlySettlement(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, ledger.Totals{BorrowTotal: 2000, Net: -2000}, after.Totals)
}

func TestService_ShopCumulativeStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{}).
		Return([]*ledger.Transaction{
			tx("여진", ledger.TypeLend, 10000, date(2026, 1, 10)),
			tx("여진", ledger.TypeLend, 5000, date(2026, 2, 10)),
			tx("여진", ledger.TypeBorrow, 3000, date(2026, 3, 10)),
			tx("뚜샵", ledger.TypeBorrow, 7000, date(2026, 2, 1)),
		}, nil)

	svc := ledger.NewService(repo, testShops)
	stats, err := svc.ShopCumulativeStats(context.Background())
	require.NoError(t, err)

	require.Len(t, stats, 2)
	assert.Equal(t, ledger.Totals{LendTotal: 15000, BorrowTotal: 3000, Net: 12000}, stats["여진"])
	assert.Equal(t, ledger.Totals{BorrowTotal: 7000, Net: -7000}, stats["뚜샵"])
}
