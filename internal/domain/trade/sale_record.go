package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRecord is one transaction line from a marketplace sales export. Every
// record carries the tenant key resolved once for the whole file it came
// from; the key is never re-derived per row.
type SaleRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantKey     string          `gorm:"type:varchar(15);not null;index:idx_sales_tenant_period,priority:1"`
	Marketplace   Marketplace     `gorm:"type:varchar(20);not null;index:idx_sales_tenant_period,priority:2"`
	OrderID       string          `gorm:"type:varchar(64);not null;index"`
	SuborderID    string          `gorm:"type:varchar(64);index"`
	OrderDate     time.Time       `gorm:"type:date"`
	RawSKU        string          `gorm:"type:varchar(200)"`
	NormalizedSKU string          `gorm:"type:varchar(100);index"`
	Description   string          `gorm:"type:varchar(500)"`
	HSNCode       string          `gorm:"type:varchar(10);index"`
	Quantity      int             `gorm:"not null;default:0"`
	TaxableValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceValue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	InvoiceNumber string          `gorm:"type:varchar(64);index"`
	InvoiceDate   *time.Time      `gorm:"type:date"`
	BuyerState    string          `gorm:"type:varchar(50)"`
	BuyerGSTIN    string          `gorm:"type:varchar(15);index"`
	BuyerName     string          `gorm:"type:varchar(200)"`
	FinancialYear int             `gorm:"not null;index:idx_sales_tenant_period,priority:3"`
	MonthNumber   int             `gorm:"not null;index:idx_sales_tenant_period,priority:4"`
	SupplierID    string          `gorm:"type:varchar(64);index"`
	ImportBatchID uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (SaleRecord) TableName() string {
	return "sale_records"
}

// IsRegisteredBuyer reports whether the record carries a counterpart
// registration identifier, making it eligible for the B2B table
func (r *SaleRecord) IsRegisteredBuyer() bool {
	return isRegistration(r.BuyerGSTIN)
}

// SaleRecordRepository is the write-side repository for sale records. The
// ingestion pipeline is the only writer; all reads go through the
// tenant-scoped query gateway.
type SaleRecordRepository interface {
	// ReplaceForScope atomically deletes prior records in the exact
	// (tenant, marketplace, period, supplier) scope and inserts the given
	// ones. Either everything is committed or nothing is.
	ReplaceForScope(ctx context.Context, scope ImportScope, tenantKey string, records []SaleRecord) error
	// CountForScope returns the number of stored records in a scope
	CountForScope(ctx context.Context, scope ImportScope, tenantKey string) (int64, error)
	// TenantKeysByOrder returns the tenant key recorded on the sale for each
	// of the given order identifiers. Used by the invoice import to warn when
	// an invoice listing and its linked sale disagree about the seller.
	TenantKeysByOrder(ctx context.Context, orderIDs []string) (map[string]string, error)
}

func isRegistration(gstin string) bool {
	switch gstin {
	case "", "nan", "NaN", "NAN":
		return false
	}
	return true
}
