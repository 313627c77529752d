package trade

import "github.com/shopspring/decimal"

// NearestSlab maps a raw marketplace tax rate onto the nearest configured GST
// slab. Marketplace exports round component rates inconsistently (9 + 9
// reported as 17.99, 18.0001 and so on); statutory tables require the exact
// slab value. An empty slab list returns the raw rate unchanged.
func NearestSlab(rate decimal.Decimal, slabs []decimal.Decimal) decimal.Decimal {
	if len(slabs) == 0 {
		return rate
	}
	best := slabs[0]
	bestDist := rate.Sub(best).Abs()
	for _, slab := range slabs[1:] {
		if dist := rate.Sub(slab).Abs(); dist.LessThan(bestDist) {
			best = slab
			bestDist = dist
		}
	}
	return best
}

// NormalizePercent converts a raw rate to percentage form. Some exports
// report 5% as 0.05, others as 5; values strictly between 0 and 1 are read
// as fractions.
func NormalizePercent(rate decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if rate.IsPositive() && rate.LessThan(one) {
		return rate.Mul(decimal.NewFromInt(100))
	}
	return rate
}

// CombinedRate returns the effective GST rate for a record: the integrated
// rate when the supply is inter-state, otherwise the sum of the central and
// state components. A zero result means the source row carried no usable
// rate.
func CombinedRate(igstRate, cgstRate, sgstRate decimal.Decimal) decimal.Decimal {
	if igstRate.IsPositive() {
		return igstRate
	}
	if cgstRate.IsPositive() && sgstRate.IsPositive() {
		return cgstRate.Add(sgstRate)
	}
	return decimal.Zero
}
