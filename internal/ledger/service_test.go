package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/loroshop/loro/internal/ledger"
)

var testShops = []string{"원더조이", "뚜샵", "코스블라", "온리", "여진", "소연"}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestService_Add(t *testing.T) {
	type testCase struct {
		name      string
		params    ledger.CreateParams
		setupMock func(m *ledger.MockRepository)
		wantErr   string
		wantTotal int64
		wantMonth string
	}

	valid := ledger.CreateParams{
		Date:        date(2026, 3, 14),
		Shop:        "여진",
		ProductName: "반지 A",
		Quantity:    4,
		UnitPrice:   2500,
		Type:        ledger.TypeLend,
	}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *ledger.Transaction) error {
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
			wantTotal: 10000,
			wantMonth: "2026-03",
		},
		{
			name: "ZeroQuantity",
			params: func() ledger.CreateParams {
				p := valid
				p.Quantity = 0
				return p
			}(),
			wantErr: "quantity",
		},
		{
			name: "NegativeUnitPrice",
			params: func() ledger.CreateParams {
				p := valid
				p.UnitPrice = -100
				return p
			}(),
			wantErr: "unit_price",
		},
		{
			name: "UnknownShop",
			params: func() ledger.CreateParams {
				p := valid
				p.Shop = "미지의샵"
				return p
			}(),
			wantErr: "shop",
		},
		{
			name: "BadType",
			params: func() ledger.CreateParams {
				p := valid
				p.Type = "loan"
				return p
			}(),
			wantErr: "type",
		},
		{
			name: "ZeroDate",
			params: func() ledger.CreateParams {
				p := valid
				p.Date = time.Time{}
				return p
			}(),
			wantErr: "date",
		},
		{
			name: "EmptyProduct",
			params: func() ledger.CreateParams {
				p := valid
				p.ProductName = ""
				return p
			}(),
			wantErr: "product_name",
		},
		{
			name:   "RepoError",
			params: valid,
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ledger.NewService(repo, testShops)
			got, err := svc.Add(context.Background(), tt.params)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantTotal, got.Total)
			assert.Equal(t, tt.wantMonth, got.Month)
		})
	}
}

func TestService_Add_ValidationErrorIsTyped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl), testShops)

	_, err := svc.Add(context.Background(), ledger.CreateParams{
		Date:        date(2026, 3, 1),
		Shop:        "여진",
		ProductName: "반지 A",
		Quantity:    -1,
		UnitPrice:   100,
		Type:        ledger.TypeLend,
	})

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "quantity", vErr.Field)
}

func TestService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	id := uuid.New()
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return("", ledger.ErrNotFound)

	svc := ledger.NewService(repo, testShops)
	err := svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_List_InvalidMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl), testShops)

	month := "2026-3"
	_, err := svc.List(context.Background(), ledger.ListFilter{Month: &month})

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "month", vErr.Field)
}

func TestService_RecentActivity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// 15 transactions out of order: 5 days x 3 per day, same date with
	// distinct creation times.
	var txs []*ledger.Transaction

	for i := range 5 {
		for j := range 3 {
			txs = append(txs, &ledger.Transaction{
				ID:        uuid.New(),
				Date:      date(2026, 3, 10-i),
				Shop:      "온리",
				Total:     1000,
				Type:      ledger.TypeLend,
				CreatedAt: base.Add(time.Duration(j) * time.Minute),
			})
		}
	}

	// Shuffle deterministically by reversing.
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{Limit: 10}).
		Return(txs, nil)

	svc := ledger.NewService(repo, testShops)
	got, err := svc.RecentActivity(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 10)

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		dateOrdered := !prev.Date.Before(cur.Date)
		assert.True(t, dateOrdered, "dates must be descending")

		if prev.Date.Equal(cur.Date) {
			assert.False(t, prev.CreatedAt.Before(cur.CreatedAt), "created_at must break ties descending")
		}
	}

	assert.Equal(t, date(2026, 3, 10), got[0].Date)
}

func TestService_RecentActivity_BadLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := ledger.NewService(ledger.NewMockRepository(ctrl), testShops)

	_, err := svc.RecentActivity(context.Background(), 0)

	var vErr *ledger.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "limit", vErr.Field)
}
