package catalog

import "github.com/shopspring/decimal"

// CostTable resolves the purchase cost of a normalized product key. The table
// is externally supplied configuration (a cost-price file maintained by the
// seller); the core never computes costs.
type CostTable interface {
	// Price returns the unit cost for the key and whether the key is known
	Price(key NormalizedSKU) (decimal.Decimal, bool)
}

// StaticCostTable is an in-memory CostTable
type StaticCostTable struct {
	prices map[NormalizedSKU]decimal.Decimal
}

// NewStaticCostTable creates a cost table from a prepared price map
func NewStaticCostTable(prices map[NormalizedSKU]decimal.Decimal) *StaticCostTable {
	if prices == nil {
		prices = make(map[NormalizedSKU]decimal.Decimal)
	}
	return &StaticCostTable{prices: prices}
}

// Price implements CostTable
func (t *StaticCostTable) Price(key NormalizedSKU) (decimal.Decimal, bool) {
	p, ok := t.prices[key]
	return p, ok
}

// Len returns the number of known keys
func (t *StaticCostTable) Len() int {
	return len(t.prices)
}
