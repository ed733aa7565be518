package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loroshop/loro/internal/catalog"
	enc "github.com/loroshop/loro/internal/encoding"
)

// Parser reads product sheets exported from Google Sheets as CSV. The
// required columns are located by alias so the same sheet works whether
// its headers are Korean or English.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// ParseResult carries every row that parsed cleanly plus a per-row
// failure report. A malformed row never aborts the rest of the file.
type ParseResult struct {
	Rows     []catalog.Row
	Failures []catalog.RowError
}

// Column aliases, matched case-insensitively as substrings. The Korean
// names are what the shop's own sheet uses.
var (
	nameAliases  = []string{"상품명", "product", "name"}
	skuAliases   = []string{"sku", "코드"}
	priceAliases = []string{"공급가", "가격", "price", "supply"}
)

func (p *Parser) Parse(r io.Reader) (*ParseResult, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	nameIdx, skuIdx, priceIdx, ok := detectColumns(records[0])
	if !ok {
		return nil, fmt.Errorf("required columns not found: want product name, sku and supply price headers")
	}

	result := &ParseResult{}
	maxIdx := max(nameIdx, max(skuIdx, priceIdx))

	for i, record := range records[1:] {
		rowNum := i + 1 // 1-based, header excluded

		if len(record) <= maxIdx {
			result.Failures = append(result.Failures, catalog.RowError{
				Row:    rowNum,
				Reason: fmt.Sprintf("want at least %d columns, got %d", maxIdx+1, len(record)),
			})

			continue
		}

		price, err := parsePrice(record[priceIdx])
		if err != nil {
			result.Failures = append(result.Failures, catalog.RowError{
				Row:    rowNum,
				Reason: fmt.Sprintf("invalid supply price %q: not a number", strings.TrimSpace(record[priceIdx])),
			})

			continue
		}

		result.Rows = append(result.Rows, catalog.Row{
			Index:       rowNum,
			Name:        strings.TrimSpace(record[nameIdx]),
			SKU:         strings.TrimSpace(record[skuIdx]),
			SupplyPrice: price,
		})
	}

	return result, nil
}

// detectColumns maps the header row to the three required column
// indices via the alias lists.
func detectColumns(header []string) (nameIdx, skuIdx, priceIdx int, ok bool) {
	nameIdx, skuIdx, priceIdx = -1, -1, -1

	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(col))

		switch {
		case nameIdx == -1 && matchesAny(col, nameAliases):
			nameIdx = i
		case skuIdx == -1 && matchesAny(col, skuAliases):
			skuIdx = i
		case priceIdx == -1 && matchesAny(col, priceAliases):
			priceIdx = i
		}
	}

	return nameIdx, skuIdx, priceIdx, nameIdx != -1 && skuIdx != -1 && priceIdx != -1
}

func matchesAny(col string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(col, alias) {
			return true
		}
	}

	return false
}

// parsePrice parses a supply price cell into whole KRW. Sheets exports
// carry thousand separators and sometimes a trailing 원 ("12,000원").
func parsePrice(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSuffix(clean, "원")
	clean = strings.TrimSpace(clean)

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, err
	}

	return d.Round(0).IntPart(), nil
}
