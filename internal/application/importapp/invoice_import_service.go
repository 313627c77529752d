package importapp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
	"github.com/gstledger/backend/internal/infrastructure/logger"
)

// InvoiceImportService ingests invoice/document-number listings. Listings
// reveal no seller registration themselves, so resolution runs on the
// supplier mapping or an explicit confirmation; the linked sales are then
// cross-checked and any disagreement is surfaced as a warning, never as a
// silent reassignment.
type InvoiceImportService struct {
	invoices     trade.InvoiceRecordRepository
	sales        trade.SaleRecordRepository
	resolver     *IdentityResolver
	coordinator  *Coordinator
	maxRowErrors int
}

// NewInvoiceImportService creates an invoice import service
func NewInvoiceImportService(
	invoices trade.InvoiceRecordRepository,
	sales trade.SaleRecordRepository,
	resolver *IdentityResolver,
	coordinator *Coordinator,
	maxRowErrors int,
) *InvoiceImportService {
	return &InvoiceImportService{
		invoices:     invoices,
		sales:        sales,
		resolver:     resolver,
		coordinator:  coordinator,
		maxRowErrors: maxRowErrors,
	}
}

// Import reads one invoice listing and replaces the declared scope with its
// contents
func (s *InvoiceImportService) Import(ctx context.Context, r io.Reader, scope trade.ImportScope, opts ImportOptions) (*ImportReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	mapper, err := invoiceMapperFor(scope.Marketplace)
	if err != nil {
		return nil, err
	}

	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(mapper.requiredHeaders()); len(missing) > 0 {
		return nil, csvimport.NewRowError(1, missing[0], csvimport.ErrCodeImportMissingHeader,
			"file is missing required columns")
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, err
	}

	report := &ImportReport{BatchID: uuid.New(), Scope: scope}
	if len(rows) == 0 {
		report.addWarning("file has headers but no data rows, nothing imported")
		return report, nil
	}

	key, err := s.resolver.Resolve(ctx, scope.Marketplace, SourceIdentity{SupplierID: scope.SupplierID}, opts.ConfirmedTenant)
	if err != nil {
		return nil, err
	}
	report.TenantKey = key.String()

	rowErrors := csvimport.NewErrorCollection(s.maxRowErrors)
	var records []trade.InvoiceRecord
	seen := make(map[string]bool)
	for _, row := range rows {
		record, err := mapper.mapRow(row)
		if err != nil {
			report.SkippedRows++
			var rowErr csvimport.RowError
			if errors.As(err, &rowErr) {
				rowErrors.Add(rowErr)
			} else {
				rowErrors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportMalformedRow, err.Error()))
			}
			continue
		}
		if record == nil {
			report.SkippedRows++
			continue
		}
		// Invoice numbers are unique per tenant; duplicated listing rows
		// collapse to the first occurrence
		if seen[record.InvoiceNumber] {
			report.SkippedRows++
			continue
		}
		seen[record.InvoiceNumber] = true

		record.ID = uuid.New()
		record.TenantKey = key.String()
		record.Marketplace = scope.Marketplace
		record.FinancialYear = scope.FinancialYear
		record.MonthNumber = scope.Month
		record.SupplierID = scope.SupplierID
		record.ImportBatchID = report.BatchID
		records = append(records, *record)
	}
	report.InvoiceRows = len(records)
	report.setErrors(rowErrors)

	if err := s.checkSaleLinkage(ctx, key.String(), records, report); err != nil {
		return nil, err
	}

	ctx, _ = logger.WithImportBatch(ctx, logger.FromContext(ctx), report.BatchID.String())
	log := logger.L(ctx)

	err = s.coordinator.Serialize(func() error {
		return s.invoices.ReplaceForScope(ctx, scope, key.String(), records)
	})
	if err != nil {
		return nil, err
	}

	log.Info("invoice import completed",
		zap.String("scope", scope.String()),
		zap.String("tenant_key", key.String()),
		zap.Int("invoice_rows", report.InvoiceRows),
		zap.Int("skipped_rows", report.SkippedRows),
		zap.Int("warnings", len(report.Warnings)))
	return report, nil
}

// checkSaleLinkage compares the resolved tenant against the tenant recorded
// on the sales the listing's orders link to
func (s *InvoiceImportService) checkSaleLinkage(ctx context.Context, tenantKey string, records []trade.InvoiceRecord, report *ImportReport) error {
	if len(records) == 0 {
		return nil
	}
	orderIDs := make([]string, 0, len(records))
	for _, rec := range records {
		orderIDs = append(orderIDs, rec.OrderID)
	}
	saleTenants, err := s.sales.TenantKeysByOrder(ctx, orderIDs)
	if err != nil {
		return err
	}
	mismatches := 0
	for _, rec := range records {
		if saleKey, ok := saleTenants[rec.OrderID]; ok && saleKey != tenantKey {
			mismatches++
		}
	}
	if mismatches > 0 {
		report.TenantMismatchRows = mismatches
		report.addWarning(fmt.Sprintf("%s: %d invoice rows link to sales recorded under a different seller registration; records kept under %s",
			shared.ErrTenantMismatch.Code, mismatches, tenantKey))
	}
	return nil
}
