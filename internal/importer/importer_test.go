package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loroshop/loro/internal/importer"
)

func TestParser_KoreanHeaders(t *testing.T) {
	csv := `상품명,상품코드,공급가
반지 A,R1,"12,000원"
목걸이 B,N1,8000
귀걸이 C,E1,미정
`

	p := importer.New()
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 3, result.Failures[0].Row)

	assert.Equal(t, 1, result.Rows[0].Index)
	assert.Equal(t, "반지 A", result.Rows[0].Name)
	assert.Equal(t, "R1", result.Rows[0].SKU)
	assert.Equal(t, int64(12000), result.Rows[0].SupplyPrice)

	assert.Equal(t, 2, result.Rows[1].Index)
	assert.Equal(t, "목걸이 B", result.Rows[1].Name)
	assert.Equal(t, int64(8000), result.Rows[1].SupplyPrice)
}

func TestParser_EnglishHeaders(t *testing.T) {
	csv := `Product Name,SKU,Supply Price
Ring A,R1,12000
Necklace B,N1,8000
`

	p := importer.New()
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Empty(t, result.Failures)
}

func TestParser_BadPriceReportedPerRow(t *testing.T) {
	csv := `product,sku,price
Ring A,R1,abc
Ring B,R2,10000
Ring C,R3,7000
Ring D,R4,3000
`

	p := importer.New()
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Len(t, result.Rows, 3)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Reason, "not a number")
	assert.Contains(t, result.Failures[0].Reason, "abc")
}

func TestParser_ShortRowReported(t *testing.T) {
	csv := `product,sku,price
Ring A,R1
Ring B,R2,10000
`

	p := importer.New()
	result, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Ring B", result.Rows[0].Name)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Row)
}

func TestParser_MissingColumns(t *testing.T) {
	csv := `foo,bar
1,2
`

	p := importer.New()
	_, err := p.Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns")
}

func TestParser_Empty(t *testing.T) {
	p := importer.New()
	_, err := p.Parse(strings.NewReader(""))
	require.Error(t, err)
}
