package costs

import (
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/gstledger/backend/internal/domain/catalog"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
)

// The cost-price sheet is a two-column CSV maintained by the seller. Product
// identifiers in it are raw listing names; they go through the same
// normalizer as the sales data so that lookup keys line up.

var requiredHeaders = []string{"sku", "cost"}

// Load reads a cost-price sheet from the given path
func Load(path string, normalizer *catalog.Normalizer) (*catalog.StaticCostTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cost-price file: %w", err)
	}
	defer f.Close()
	return Parse(f, normalizer)
}

// Parse reads a cost-price sheet from a reader. Later rows for the same
// normalized key overwrite earlier ones.
func Parse(r io.Reader, normalizer *catalog.Normalizer) (*catalog.StaticCostTable, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(requiredHeaders); len(missing) > 0 {
		return nil, fmt.Errorf("cost-price file missing columns: %v", missing)
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	prices := make(map[catalog.NormalizedSKU]decimal.Decimal, len(rows))
	for _, row := range rows {
		rawSKU := row.GetAny("sku", "product", "product name")
		if rawSKU == "" {
			continue
		}
		cost, err := row.GetDecimal("cost")
		if err != nil {
			return nil, fmt.Errorf("row %d: bad cost value: %w", row.LineNumber, err)
		}
		key := normalizer.Normalize(rawSKU)
		if key == catalog.UnknownSKU {
			continue
		}
		prices[key] = cost
	}

	return catalog.NewStaticCostTable(prices), nil
}
