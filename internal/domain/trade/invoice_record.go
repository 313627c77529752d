package trade

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentType is the GST-standard document classification used by the
// document-number register
type DocumentType string

const (
	DocumentInvoice    DocumentType = "Invoices for outward supply"
	DocumentCreditNote DocumentType = "Credit Note"
	DocumentDebitNote  DocumentType = "Debit Note"
	DocumentChallan    DocumentType = "Delivery Challan for job work"
)

// NormalizeDocumentType maps raw marketplace document labels onto the
// statutory document types
func NormalizeDocumentType(raw string) DocumentType {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case upper == "" || upper == "INVOICE" || upper == "INV":
		return DocumentInvoice
	case strings.HasPrefix(upper, "CREDIT"):
		return DocumentCreditNote
	case upper == "DEBIT NOTE" || upper == "DEBIT_NOTE":
		return DocumentDebitNote
	case upper == "DELIVERY CHALLAN" || upper == "DELIVERY_CHALLAN":
		return DocumentChallan
	}
	return DocumentType(strings.TrimSpace(raw))
}

// InvoiceRecord is one invoice/document-number entry from a marketplace tax
// invoice listing. It is linked to a SaleRecord by order identifier, but it
// carries its own tenant key captured at import time; the key is never
// inherited through the link. Invoice numbers are unique per tenant, never
// globally: two tenants may legitimately issue the same number.
type InvoiceRecord struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantKey     string       `gorm:"type:varchar(15);not null;uniqueIndex:idx_invoice_tenant_number,priority:1;index:idx_invoices_tenant_period,priority:1"`
	Marketplace   Marketplace  `gorm:"type:varchar(20);not null;index:idx_invoices_tenant_period,priority:2"`
	InvoiceNumber string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	DocumentType  DocumentType `gorm:"type:varchar(50);not null"`
	OrderID       string       `gorm:"type:varchar(64);not null;index"`
	InvoiceDate   *time.Time   `gorm:"type:date"`
	HSNCode       string       `gorm:"type:varchar(10)"`
	Description   string       `gorm:"type:varchar(500)"`
	FinancialYear int          `gorm:"not null;index:idx_invoices_tenant_period,priority:3"`
	MonthNumber   int          `gorm:"not null;index:idx_invoices_tenant_period,priority:4"`
	SupplierID    string       `gorm:"type:varchar(64);index"`
	ImportBatchID uuid.UUID    `gorm:"type:uuid;index"`
	CreatedAt     time.Time
}

// TableName returns the table name for GORM
func (InvoiceRecord) TableName() string {
	return "invoice_records"
}

var trailingDigitsRe = regexp.MustCompile(`[0-9]+`)

// SplitInvoiceNumber splits an invoice number into a series prefix and the
// sequence number, for document-register series grouping. The last digit run
// in the string is treated as the sequence number, which matches how the
// marketplaces number their document series.
func SplitInvoiceNumber(invoiceNumber string) (prefix string, number int64) {
	runs := trailingDigitsRe.FindAllString(invoiceNumber, -1)
	if len(runs) == 0 {
		return invoiceNumber, 0
	}
	last := runs[len(runs)-1]
	pos := strings.LastIndex(invoiceNumber, last)
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return invoiceNumber, 0
	}
	return invoiceNumber[:pos], n
}

// InvoiceRecordRepository is the write-side repository for invoice records
type InvoiceRecordRepository interface {
	ReplaceForScope(ctx context.Context, scope ImportScope, tenantKey string, records []InvoiceRecord) error
	CountForScope(ctx context.Context, scope ImportScope, tenantKey string) (int64, error)
}
