package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func slabs(values ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.NewFromFloat(v))
	}
	return out
}

func TestNearestSlab(t *testing.T) {
	gst := slabs(0, 0.1, 0.25, 3, 5, 12, 18, 28)

	t.Run("snaps rounded component sums onto the slab", func(t *testing.T) {
		assert.True(t, decimal.NewFromInt(18).Equal(NearestSlab(decimal.NewFromFloat(17.99), gst)))
		assert.True(t, decimal.NewFromInt(18).Equal(NearestSlab(decimal.NewFromFloat(18.0001), gst)))
		assert.True(t, decimal.NewFromInt(5).Equal(NearestSlab(decimal.NewFromFloat(4.9), gst)))
	})

	t.Run("exact slab values pass through", func(t *testing.T) {
		for _, slab := range gst {
			assert.True(t, slab.Equal(NearestSlab(slab, gst)))
		}
	})

	t.Run("empty slab list returns the raw rate", func(t *testing.T) {
		raw := decimal.NewFromFloat(17.99)
		assert.True(t, raw.Equal(NearestSlab(raw, nil)))
	})
}

func TestNormalizePercent(t *testing.T) {
	t.Run("fractions become percentages", func(t *testing.T) {
		assert.True(t, decimal.NewFromInt(5).Equal(NormalizePercent(decimal.NewFromFloat(0.05))))
		assert.True(t, decimal.NewFromInt(18).Equal(NormalizePercent(decimal.NewFromFloat(0.18))))
	})

	t.Run("percentages pass through", func(t *testing.T) {
		assert.True(t, decimal.NewFromInt(5).Equal(NormalizePercent(decimal.NewFromInt(5))))
		assert.True(t, decimal.NewFromInt(1).Equal(NormalizePercent(decimal.NewFromInt(1))))
	})

	t.Run("zero stays zero", func(t *testing.T) {
		assert.True(t, NormalizePercent(decimal.Zero).IsZero())
	})
}

func TestCombinedRate(t *testing.T) {
	t.Run("integrated rate wins for inter-state supply", func(t *testing.T) {
		got := CombinedRate(decimal.NewFromInt(18), decimal.Zero, decimal.Zero)
		assert.True(t, decimal.NewFromInt(18).Equal(got))
	})

	t.Run("intra-state sums the components", func(t *testing.T) {
		got := CombinedRate(decimal.Zero, decimal.NewFromInt(9), decimal.NewFromInt(9))
		assert.True(t, decimal.NewFromInt(18).Equal(got))
	})

	t.Run("no usable rate returns zero", func(t *testing.T) {
		got := CombinedRate(decimal.Zero, decimal.NewFromInt(9), decimal.Zero)
		assert.True(t, got.IsZero())
	})
}
