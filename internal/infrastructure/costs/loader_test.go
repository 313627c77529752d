package costs

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gstledger/backend/internal/domain/catalog"
)

func TestParse(t *testing.T) {
	normalizer := catalog.NewNormalizer(catalog.DefaultNormalizerConfig())

	t.Run("loads prices keyed by normalized product", func(t *testing.T) {
		table, err := Parse(strings.NewReader("sku,cost\nblack-25,12.50\nBLUE 50,20\n"), normalizer)
		require.NoError(t, err)

		price, ok := table.Price(normalizer.Normalize("BLACK-25"))
		require.True(t, ok)
		assert.True(t, decimal.NewFromFloat(12.50).Equal(price))

		price, ok = table.Price(normalizer.Normalize("blue_50"))
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(20).Equal(price))
	})

	t.Run("later rows overwrite earlier ones", func(t *testing.T) {
		table, err := Parse(strings.NewReader("sku,cost\nblack-25,10\nblack-25,15\n"), normalizer)
		require.NoError(t, err)
		price, ok := table.Price(normalizer.Normalize("black-25"))
		require.True(t, ok)
		assert.True(t, decimal.NewFromInt(15).Equal(price))
	})

	t.Run("rows without a product identifier are skipped", func(t *testing.T) {
		table, err := Parse(strings.NewReader("sku,cost\n,10\nwidget,5\n"), normalizer)
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
	})

	t.Run("missing columns are rejected", func(t *testing.T) {
		_, err := Parse(strings.NewReader("product,price\na,1\n"), normalizer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing columns")
	})

	t.Run("bad cost values are rejected with the row number", func(t *testing.T) {
		_, err := Parse(strings.NewReader("sku,cost\nwidget,abc\n"), normalizer)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "row 2")
	})
}
