package importapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
)

func TestResolveDirectKey(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("a registration in the file wins", func(t *testing.T) {
		key, err := h.resolver.Resolve(ctx, trade.MarketplaceMeesho,
			SourceIdentity{DirectKeys: []string{tenantA}, SupplierID: "SUP1"}, "")
		require.NoError(t, err)
		assert.Equal(t, tenantA, key.String())
	})

	t.Run("and the supplier pairing is remembered", func(t *testing.T) {
		m, err := h.mappings.FindBySupplier(ctx, "meesho", "SUP1")
		require.NoError(t, err)
		assert.Equal(t, tenantA, m.TenantKey)
	})

	t.Run("two distinct registrations reject the file", func(t *testing.T) {
		_, err := h.resolver.Resolve(ctx, trade.MarketplaceMeesho,
			SourceIdentity{DirectKeys: []string{tenantA, tenantB}}, "")
		assert.ErrorIs(t, err, shared.ErrMixedTenantSource)
	})

	t.Run("an invalid registration in the file is an error", func(t *testing.T) {
		_, err := h.resolver.Resolve(ctx, trade.MarketplaceMeesho,
			SourceIdentity{DirectKeys: []string{"NOT-A-GSTIN-XXX"}}, "")
		assert.Error(t, err)
	})
}

func TestResolveViaMapping(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	key, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)
	m, err := tenant.NewSellerMapping("flipkart", "ACC9", key, "")
	require.NoError(t, err)
	require.NoError(t, h.mappings.Upsert(ctx, m))

	got, err := h.resolver.Resolve(ctx, trade.MarketplaceFlipkart,
		SourceIdentity{SupplierID: "ACC9"}, "")
	require.NoError(t, err)
	assert.Equal(t, key, got)
}

func TestResolveViaConfirmation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	t.Run("nothing known and no confirmation fails", func(t *testing.T) {
		_, err := h.resolver.Resolve(ctx, trade.MarketplaceFlipkart, SourceIdentity{}, "")
		assert.ErrorIs(t, err, shared.ErrIdentityUnresolved)
	})

	t.Run("explicit confirmation resolves", func(t *testing.T) {
		confirmed, err := tenant.ParseKey(tenantB)
		require.NoError(t, err)
		got, err := h.resolver.Resolve(ctx, trade.MarketplaceFlipkart,
			SourceIdentity{SupplierID: "ACC1"}, confirmed)
		require.NoError(t, err)
		assert.Equal(t, confirmed, got)
	})

	t.Run("confirmation with a supplier id is remembered for next time", func(t *testing.T) {
		got, err := h.resolver.Resolve(ctx, trade.MarketplaceFlipkart,
			SourceIdentity{SupplierID: "ACC1"}, "")
		require.NoError(t, err)
		assert.Equal(t, tenantB, got.String())
	})

	t.Run("confirmation never overrides a key found in the file", func(t *testing.T) {
		confirmed, err := tenant.ParseKey(tenantB)
		require.NoError(t, err)
		got, err := h.resolver.Resolve(ctx, trade.MarketplaceMeesho,
			SourceIdentity{DirectKeys: []string{tenantA}}, confirmed)
		require.NoError(t, err)
		assert.Equal(t, tenantA, got.String())
	})
}
