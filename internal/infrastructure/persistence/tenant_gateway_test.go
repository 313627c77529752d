package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
)

func TestGatewayFailsClosed(t *testing.T) {
	ctx := context.Background()
	gw := NewTenantGateway(setupTestDB(t))
	period := trade.Period{FinancialYear: 2024, Month: 7}

	var zero tenant.Key
	_, err := gw.SalesForPeriod(ctx, zero, period)
	assert.ErrorIs(t, err, shared.ErrMissingTenantKey)
	_, err = gw.ReturnsForPeriod(ctx, zero, period)
	assert.ErrorIs(t, err, shared.ErrMissingTenantKey)
	_, err = gw.InvoicesForPeriod(ctx, zero, period)
	assert.ErrorIs(t, err, shared.ErrMissingTenantKey)
	_, err = gw.InvoiceSaleLinks(ctx, zero, period)
	assert.ErrorIs(t, err, shared.ErrMissingTenantKey)
	_, _, _, err = gw.CountsForPeriod(ctx, zero, period)
	assert.ErrorIs(t, err, shared.ErrMissingTenantKey)
}

func TestGatewayTenantIsolation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	gw := NewTenantGateway(db)
	period := trade.Period{FinancialYear: 2024, Month: 7}
	scope := meeshoScope()

	// Both tenants legitimately use order O1 and invoice INV-1
	salesRepo := NewSaleRecordRepository(db)
	invoiceRepo := NewInvoiceRecordRepository(db)

	salesA := []trade.SaleRecord{saleRecord(tenantA, "O1", 100)}
	stampScope(salesA, scope)
	require.NoError(t, salesRepo.ReplaceForScope(ctx, scope, tenantA, salesA))

	salesB := []trade.SaleRecord{saleRecord(tenantB, "O1", 999)}
	stampScope(salesB, scope)
	require.NoError(t, salesRepo.ReplaceForScope(ctx, scope, tenantB, salesB))

	invA := []trade.InvoiceRecord{{
		TenantKey:     tenantA,
		Marketplace:   scope.Marketplace,
		InvoiceNumber: "INV-1",
		DocumentType:  trade.DocumentInvoice,
		OrderID:       "O1",
		FinancialYear: scope.FinancialYear,
		MonthNumber:   scope.Month,
		SupplierID:    scope.SupplierID,
	}}
	require.NoError(t, invoiceRepo.ReplaceForScope(ctx, scope, tenantA, invA))

	keyA, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)
	keyB, err := tenant.ParseKey(tenantB)
	require.NoError(t, err)

	t.Run("each tenant sees only its own sales", func(t *testing.T) {
		got, err := gw.SalesForPeriod(ctx, keyA, period)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tenantA, got[0].TenantKey)

		got, err = gw.SalesForPeriod(ctx, keyB, period)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, tenantB, got[0].TenantKey)
	})

	t.Run("invoice join only links sales of the same tenant", func(t *testing.T) {
		links, err := gw.InvoiceSaleLinks(ctx, keyA, period)
		require.NoError(t, err)
		require.Len(t, links, 1)
		require.NotNil(t, links[0].SaleID)
		assert.Equal(t, salesA[0].ID, *links[0].SaleID)

		// Tenant B has no invoices; nothing rides in through the shared order
		links, err = gw.InvoiceSaleLinks(ctx, keyB, period)
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("invoice without a matching sale joins to nothing", func(t *testing.T) {
		invOrphan := []trade.InvoiceRecord{{
			TenantKey:     tenantA,
			Marketplace:   scope.Marketplace,
			InvoiceNumber: "INV-1",
			DocumentType:  trade.DocumentInvoice,
			OrderID:       "O1",
			FinancialYear: scope.FinancialYear,
			MonthNumber:   scope.Month,
			SupplierID:    scope.SupplierID,
		}, {
			TenantKey:     tenantA,
			Marketplace:   scope.Marketplace,
			InvoiceNumber: "INV-2",
			DocumentType:  trade.DocumentInvoice,
			OrderID:       "O-CANCELLED",
			FinancialYear: scope.FinancialYear,
			MonthNumber:   scope.Month,
			SupplierID:    scope.SupplierID,
		}}
		require.NoError(t, invoiceRepo.ReplaceForScope(ctx, scope, tenantA, invOrphan))

		links, err := gw.InvoiceSaleLinks(ctx, keyA, period)
		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.NotNil(t, links[0].SaleID) // INV-1
		assert.Nil(t, links[1].SaleID)    // INV-2, no live sale
	})

	t.Run("counts are per tenant", func(t *testing.T) {
		sales, returns, invoices, err := gw.CountsForPeriod(ctx, keyB, period)
		require.NoError(t, err)
		assert.Equal(t, int64(1), sales)
		assert.Zero(t, returns)
		assert.Zero(t, invoices)
	})
}
