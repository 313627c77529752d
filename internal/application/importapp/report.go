package importapp

import (
	"github.com/google/uuid"

	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
)

// ImportOptions carries the caller-supplied inputs of one import beyond the
// file itself
type ImportOptions struct {
	// ConfirmedTenant is the key the caller explicitly confirmed for this
	// import. It is only consulted when the file and the stored supplier
	// mappings reveal nothing; it never overrides a key found in the file.
	ConfirmedTenant tenant.Key
}

// ImportReport summarizes one completed import
type ImportReport struct {
	BatchID     uuid.UUID         `json:"batch_id"`
	Scope       trade.ImportScope `json:"scope"`
	TenantKey   string            `json:"tenant_key"`
	SaleRows    int               `json:"sale_rows"`
	ReturnRows  int               `json:"return_rows"`
	InvoiceRows int               `json:"invoice_rows"`
	SkippedRows int               `json:"skipped_rows"`
	// TenantMismatchRows counts rows kept under the resolved tenant even
	// though their linked records sit under a different registration
	TenantMismatchRows int                  `json:"tenant_mismatch_rows,omitempty"`
	Warnings           []string             `json:"warnings,omitempty"`
	RowErrors          []csvimport.RowError `json:"row_errors,omitempty"`
	TotalErrors        int                  `json:"total_errors"`
	ErrTruncated       bool                 `json:"errors_truncated,omitempty"`
}

func (r *ImportReport) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *ImportReport) setErrors(ec *csvimport.ErrorCollection) {
	r.RowErrors = ec.Errors()
	r.TotalErrors = ec.TotalCount()
	r.ErrTruncated = ec.IsTruncated()
}
