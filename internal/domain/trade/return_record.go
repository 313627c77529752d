package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NoteType flags the direction of a credit/debit note. Monetary values on
// returns are stored as positive magnitudes; direction is carried by this
// flag, never by a sign.
type NoteType string

const (
	NoteTypeCredit NoteType = "C"
	NoteTypeDebit  NoteType = "D"
)

// NoteNumber derives a note number from the originating invoice number
func (t NoteType) NoteNumber(invoiceNumber string) string {
	prefix := "CN-"
	if t == NoteTypeDebit {
		prefix = "DN-"
	}
	return prefix + invoiceNumber
}

// ReturnRecord is one return, refund or cancellation line from a marketplace
// export. Amounts are positive magnitudes; aggregation subtracts them.
type ReturnRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantKey     string          `gorm:"type:varchar(15);not null;index:idx_returns_tenant_period,priority:1"`
	Marketplace   Marketplace     `gorm:"type:varchar(20);not null;index:idx_returns_tenant_period,priority:2"`
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
	ReturnValue   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NoteType      NoteType        `gorm:"type:varchar(1);not null;default:'C'"`
	InvoiceNumber string          `gorm:"type:varchar(64);index"`
	InvoiceDate   *time.Time      `gorm:"type:date"`
	BuyerState    string          `gorm:"type:varchar(50)"`
	BuyerGSTIN    string          `gorm:"type:varchar(15);index"`
	BuyerName     string          `gorm:"type:varchar(200)"`
	FinancialYear int             `gorm:"not null;index:idx_returns_tenant_period,priority:3"`
	MonthNumber   int             `gorm:"not null;index:idx_returns_tenant_period,priority:4"`
	SupplierID    string          `gorm:"type:varchar(64);index"`
	ImportBatchID uuid.UUID       `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (ReturnRecord) TableName() string {
	return "return_records"
}

// IsRegisteredBuyer reports whether the return was issued to a registered
// buyer, making it eligible for the credit/debit note summary
func (r *ReturnRecord) IsRegisteredBuyer() bool {
	return isRegistration(r.BuyerGSTIN)
}

// ReturnRecordRepository is the write-side repository for return records
type ReturnRecordRepository interface {
	ReplaceForScope(ctx context.Context, scope ImportScope, tenantKey string, records []ReturnRecord) error
	CountForScope(ctx context.Context, scope ImportScope, tenantKey string) (int64, error)
}
