package importapp

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
	"github.com/gstledger/backend/internal/infrastructure/persistence"
)

const meeshoSalesHeader = "sub_order_num,order_date,quantity,total_taxable_sale_value," +
	"gst_rate,tax_amount,total_invoice_value,gstin,supplier_id,sup_name,product name,hsn_code,end_customer_state_new\n"

const flipkartSalesHeader = "Order ID,Order Item ID,Event Type,SKU,Order Date,Item Quantity," +
	"Taxable Value (Final Invoice Amount -Taxes)," +
	"Final Invoice Amount (Price after discount+Shipping Charges)," +
	"IGST Rate,CGST Rate,SGST Rate (or UTGST as applicable)," +
	"IGST Amount,CGST Amount,SGST Amount (Or UTGST as applicable)," +
	"Customer's Delivery State,HSN Code,Buyer Invoice ID\n"

func meeshoSaleRow(suborder, gstin, taxable string) string {
	// FY2024 month 7 is July 2023 on the calendar
	return suborder + ",2023-07-15,1," + taxable + ",0.05,5.00,105.00," + gstin + ",SUP1,Acme,blue shirt - 25,6305,Maharashtra\n"
}

func TestSalesImportStampsAndPersists(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)

	file := meeshoSalesHeader + meeshoSaleRow("SO1", tenantA, "100.00")
	report, err := h.importer.Import(ctx, strings.NewReader(file), meeshoScope(), trade.KindSale, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, tenantA, report.TenantKey)
	assert.Equal(t, 1, report.SaleRows)
	assert.Zero(t, report.ReturnRows)
	assert.Zero(t, report.SkippedRows)
	assert.NotEqual(t, uuid.Nil, report.BatchID)

	t.Run("supplier id from the file fills the scope", func(t *testing.T) {
		assert.Equal(t, "SUP1", report.Scope.SupplierID)
	})

	key, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)
	sales, err := gw.SalesForPeriod(ctx, key, trade.Period{FinancialYear: 2024, Month: 7})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	sale := sales[0]

	t.Run("scope and batch are stamped on the record", func(t *testing.T) {
		assert.Equal(t, trade.MarketplaceMeesho, sale.Marketplace)
		assert.Equal(t, 2024, sale.FinancialYear)
		assert.Equal(t, 7, sale.MonthNumber)
		assert.Equal(t, "SUP1", sale.SupplierID)
		assert.Equal(t, report.BatchID, sale.ImportBatchID)
	})

	t.Run("sku is normalized and the rate snaps to a slab", func(t *testing.T) {
		assert.Equal(t, "BLUE SHIRT 25", sale.NormalizedSKU)
		// 0.05 in the file reads as the 5% slab
		assert.True(t, decimal.NewFromInt(5).Equal(sale.TaxRate))
	})
}

func TestSalesImportReplacesScopeOnReimport(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)
	key, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)
	period := trade.Period{FinancialYear: 2024, Month: 7}

	first := meeshoSalesHeader +
		meeshoSaleRow("SO1", tenantA, "100.00") +
		meeshoSaleRow("SO2", tenantA, "200.00")
	_, err = h.importer.Import(ctx, strings.NewReader(first), meeshoScope(), trade.KindSale, ImportOptions{})
	require.NoError(t, err)

	sales, err := gw.SalesForPeriod(ctx, key, period)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	// Corrected file drops SO2; the scope holds exactly the new contents
	second := meeshoSalesHeader + meeshoSaleRow("SO1", tenantA, "150.00")
	_, err = h.importer.Import(ctx, strings.NewReader(second), meeshoScope(), trade.KindSale, ImportOptions{})
	require.NoError(t, err)

	sales, err = gw.SalesForPeriod(ctx, key, period)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "SO1", sales[0].OrderID)
	assert.True(t, decimal.NewFromInt(150).Equal(sales[0].TaxableValue))
}

func TestSalesImportMixedTenantsWritesNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)

	file := meeshoSalesHeader +
		meeshoSaleRow("SO1", tenantA, "100.00") +
		meeshoSaleRow("SO2", tenantB, "200.00")
	_, err := h.importer.Import(ctx, strings.NewReader(file), meeshoScope(), trade.KindSale, ImportOptions{})
	assert.ErrorIs(t, err, shared.ErrMixedTenantSource)

	for _, k := range []string{tenantA, tenantB} {
		key, err := tenant.ParseKey(k)
		require.NoError(t, err)
		sales, err := gw.SalesForPeriod(ctx, key, trade.Period{FinancialYear: 2024, Month: 7})
		require.NoError(t, err)
		assert.Empty(t, sales, k)
	}
}

func TestSalesImportSkipsBadRows(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	file := meeshoSalesHeader +
		meeshoSaleRow("SO1", tenantA, "100.00") +
		"SO2,not a date,1,50.00,5,2.50,52.50," + tenantA + ",SUP1,Acme,sku,6305,Delhi\n" +
		"SO4,2024-03-15,1,70.00,5,3.50,73.50," + tenantA + ",SUP1,Acme,sku,6305,Delhi\n" +
		meeshoSaleRow("SO3", tenantA, "300.00")
	report, err := h.importer.Import(ctx, strings.NewReader(file), meeshoScope(), trade.KindSale, ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.SaleRows)
	assert.Equal(t, 2, report.SkippedRows)
	assert.Equal(t, 2, report.TotalErrors)
	require.Len(t, report.RowErrors, 2)
	assert.Equal(t, csvimport.ErrCodeImportInvalidDate, report.RowErrors[0].Code)
	assert.Equal(t, 3, report.RowErrors[0].Row)
	// The March 2024 row does not belong in July of FY2024
	assert.Equal(t, csvimport.ErrCodeImportOutOfPeriod, report.RowErrors[1].Code)
	assert.Equal(t, "2024-03-15", report.RowErrors[1].Value)
}

func TestSalesImportEmptyFile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	report, err := h.importer.Import(ctx, strings.NewReader(meeshoSalesHeader), meeshoScope(), trade.KindSale, ImportOptions{})
	require.NoError(t, err)
	assert.Zero(t, report.SaleRows)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "no data rows")
}

func TestSalesImportMissingColumns(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.importer.Import(ctx, strings.NewReader("foo,bar\n1,2\n"), meeshoScope(), trade.KindSale, ImportOptions{})
	var rowErr csvimport.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, csvimport.ErrCodeImportMissingHeader, rowErr.Code)
}

func TestSalesImportReturnsFile(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)

	// The original order predates the period; returns are filed by the
	// declared scope, not the order date
	file := meeshoSalesHeader + "SO9,2023-06-20,1,-80.00,0.05,-4.00,-84.00," + tenantA + ",SUP1,Acme,sku,6305,Delhi\n"
	report, err := h.importer.Import(ctx, strings.NewReader(file), meeshoScope(), trade.KindReturn, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.ReturnRows)
	assert.Zero(t, report.SaleRows)

	key, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)
	returns, err := gw.ReturnsForPeriod(ctx, key, trade.Period{FinancialYear: 2024, Month: 7})
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.True(t, decimal.NewFromInt(80).Equal(returns[0].TaxableValue))
	assert.Equal(t, trade.NoteTypeCredit, returns[0].NoteType)
}

func TestSalesImportWritesAllTablesOrNone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)
	scope := trade.ImportScope{
		Marketplace:   trade.MarketplaceFlipkart,
		FinancialYear: 2024,
		Month:         7,
		SupplierID:    "ACC1",
	}
	confirmed, err := tenant.ParseKey(tenantA)
	require.NoError(t, err)

	// A flipkart file feeds both record tables. Break the second one so
	// its write fails after the sales write succeeded.
	require.NoError(t, h.db.DB.Migrator().DropTable(&trade.ReturnRecord{}))

	file := flipkartSalesHeader +
		"OD1,OI1,Sale,sku1,2023-07-01,1,100,118,18,0,0,18,0,0,Karnataka,6305,FKINV1\n" +
		"OD1,OI1,Return,sku1,2023-07-05,1,-100,-118,18,0,0,-18,0,0,Karnataka,6305,FKINV1\n"
	_, err = h.importer.Import(ctx, strings.NewReader(file), scope, trade.KindSale,
		ImportOptions{ConfirmedTenant: confirmed})
	require.Error(t, err)

	// The failed file must leave no sale rows behind
	sales, err := gw.SalesForPeriod(ctx, confirmed, trade.Period{FinancialYear: 2024, Month: 7})
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestSalesImportFlipkartNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	gw := persistence.NewTenantGateway(h.db)
	scope := trade.ImportScope{
		Marketplace:   trade.MarketplaceFlipkart,
		FinancialYear: 2024,
		Month:         7,
		SupplierID:    "ACC1",
	}

	file := flipkartSalesHeader +
		"OD1,OI1,Sale,sku1,2023-07-01,1,100,118,18,0,0,18,0,0,Karnataka,6305,FKINV1\n" +
		"OD1,OI1,Return,sku1,2023-07-05,1,-100,-118,18,0,0,-18,0,0,Karnataka,6305,FKINV1\n"

	t.Run("the file reveals nothing, so an unknown account fails", func(t *testing.T) {
		_, err := h.importer.Import(ctx, strings.NewReader(file), scope, trade.KindSale, ImportOptions{})
		assert.ErrorIs(t, err, shared.ErrIdentityUnresolved)
	})

	t.Run("a confirmed key resolves and writes both tables", func(t *testing.T) {
		confirmed, err := tenant.ParseKey(tenantB)
		require.NoError(t, err)
		report, err := h.importer.Import(ctx, strings.NewReader(file), scope, trade.KindSale,
			ImportOptions{ConfirmedTenant: confirmed})
		require.NoError(t, err)
		assert.Equal(t, tenantB, report.TenantKey)
		assert.Equal(t, 1, report.SaleRows)
		assert.Equal(t, 1, report.ReturnRows)

		period := trade.Period{FinancialYear: 2024, Month: 7}
		sales, err := gw.SalesForPeriod(ctx, confirmed, period)
		require.NoError(t, err)
		assert.Len(t, sales, 1)
		returns, err := gw.ReturnsForPeriod(ctx, confirmed, period)
		require.NoError(t, err)
		assert.Len(t, returns, 1)
	})

	t.Run("the account is remembered, the next file needs no confirmation", func(t *testing.T) {
		report, err := h.importer.Import(ctx, strings.NewReader(file), scope, trade.KindSale, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, tenantB, report.TenantKey)
	})
}
