package importapp

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gstledger/backend/internal/domain/catalog"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	"github.com/gstledger/backend/internal/infrastructure/persistence"
)

const (
	tenantA = "27AAAAA0000A1Z5"
	tenantB = "19BBBBB1111B2Z6"
)

// harness wires the import services over an in-memory SQLite database
type harness struct {
	db       *persistence.Database
	sales    trade.SaleRecordRepository
	returns  trade.ReturnRecordRepository
	invoices trade.InvoiceRecordRepository
	mappings tenant.SellerMappingRepository
	resolver *IdentityResolver
	importer *SalesImportService
	invImp   *InvoiceImportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&trade.SaleRecord{},
		&trade.ReturnRecord{},
		&trade.InvoiceRecord{},
		&tenant.SellerMapping{},
	))

	db := &persistence.Database{DB: gdb}
	h := &harness{
		db:       db,
		sales:    persistence.NewSaleRecordRepository(db),
		returns:  persistence.NewReturnRecordRepository(db),
		invoices: persistence.NewInvoiceRecordRepository(db),
		mappings: persistence.NewSellerMappingRepository(db),
	}
	h.resolver = NewIdentityResolver(h.mappings)
	normalizer := catalog.NewNormalizer(catalog.DefaultNormalizerConfig())
	slabs := []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(5),
		decimal.NewFromInt(12),
		decimal.NewFromInt(18),
		decimal.NewFromInt(28),
	}
	coordinator := NewCoordinator()
	h.importer = NewSalesImportService(persistence.NewImportReplacer(db), h.resolver, normalizer, slabs, coordinator, 100)
	h.invImp = NewInvoiceImportService(h.invoices, h.sales, h.resolver, coordinator, 100)
	return h
}

func meeshoScope() trade.ImportScope {
	return trade.ImportScope{
		Marketplace:   trade.MarketplaceMeesho,
		FinancialYear: 2024,
		Month:         7,
	}
}
