package importapp

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/domain/catalog"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
	"github.com/gstledger/backend/internal/infrastructure/logger"
)

// SalesImportService ingests marketplace sales and return exports. One call
// imports one file into one declared scope; re-running the same scope
// replaces what the previous run wrote and nothing else.
type SalesImportService struct {
	replacer     trade.ImportReplacer
	resolver     *IdentityResolver
	normalizer   *catalog.Normalizer
	slabs        []decimal.Decimal
	coordinator  *Coordinator
	maxRowErrors int
}

// NewSalesImportService creates a sales import service
func NewSalesImportService(
	replacer trade.ImportReplacer,
	resolver *IdentityResolver,
	normalizer *catalog.Normalizer,
	slabs []decimal.Decimal,
	coordinator *Coordinator,
	maxRowErrors int,
) *SalesImportService {
	return &SalesImportService{
		replacer:     replacer,
		resolver:     resolver,
		normalizer:   normalizer,
		slabs:        slabs,
		coordinator:  coordinator,
		maxRowErrors: maxRowErrors,
	}
}

// Import reads one export file and replaces the declared scope with its
// contents. Identity failures abort before any write; malformed rows are
// skipped and reported.
func (s *SalesImportService) Import(ctx context.Context, r io.Reader, scope trade.ImportScope, kind trade.RecordKind, opts ImportOptions) (*ImportReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	mapper, err := salesMapperFor(scope.Marketplace, kind)
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

	identity := mapper.identity(rows)
	key, err := s.resolver.Resolve(ctx, scope.Marketplace, identity, opts.ConfirmedTenant)
	if err != nil {
		return nil, err
	}
	report.TenantKey = key.String()
	if scope.SupplierID == "" {
		scope.SupplierID = identity.SupplierID
		report.Scope = scope
	}

	rowErrors := csvimport.NewErrorCollection(s.maxRowErrors)
	periodStart, periodEnd := scope.PeriodBounds()
	var sales []trade.SaleRecord
	var returnRecords []trade.ReturnRecord
	for _, row := range rows {
		mapped, err := mapper.mapRow(row)
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
		switch {
		case mapped.sale != nil:
			// A sale dated outside the declared month must not be filed
			// under it; returns are exempt because they cite the original
			// order date
			if mapped.sale.OrderDate.Before(periodStart) || !mapped.sale.OrderDate.Before(periodEnd) {
				report.SkippedRows++
				rowErrors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "order date",
					csvimport.ErrCodeImportOutOfPeriod, "order date falls outside the declared period",
					mapped.sale.OrderDate.Format("2006-01-02")))
				continue
			}
			s.stampSale(mapped.sale, scope, key, report.BatchID)
			sales = append(sales, *mapped.sale)
		case mapped.ret != nil:
			s.stampReturn(mapped.ret, scope, key, report.BatchID)
			returnRecords = append(returnRecords, *mapped.ret)
		default:
			report.SkippedRows++
		}
	}
	report.SaleRows = len(sales)
	report.ReturnRows = len(returnRecords)
	report.setErrors(rowErrors)

	ctx, _ = logger.WithImportBatch(ctx, logger.FromContext(ctx), report.BatchID.String())
	log := logger.L(ctx)

	// One transaction for every table the format feeds: a file never
	// commits its sales without its returns
	err = s.coordinator.Serialize(func() error {
		return s.replacer.ReplaceForScope(ctx, scope, key.String(), sales, returnRecords, mapper.kinds())
	})
	if err != nil {
		return nil, err
	}

	log.Info("import completed",
		zap.String("scope", scope.String()),
		zap.String("tenant_key", key.String()),
		zap.Int("sale_rows", report.SaleRows),
		zap.Int("return_rows", report.ReturnRows),
		zap.Int("skipped_rows", report.SkippedRows),
		zap.Int("row_errors", report.TotalErrors))
	return report, nil
}

func (s *SalesImportService) stampSale(rec *trade.SaleRecord, scope trade.ImportScope, key tenant.Key, batch uuid.UUID) {
	rec.ID = uuid.New()
	rec.TenantKey = key.String()
	rec.Marketplace = scope.Marketplace
	rec.FinancialYear = scope.FinancialYear
	rec.MonthNumber = scope.Month
	rec.SupplierID = scope.SupplierID
	rec.ImportBatchID = batch
	rec.NormalizedSKU = s.normalizer.Normalize(rec.RawSKU).String()
	rec.TaxRate = trade.NearestSlab(rec.TaxRate, s.slabs)
}

func (s *SalesImportService) stampReturn(rec *trade.ReturnRecord, scope trade.ImportScope, key tenant.Key, batch uuid.UUID) {
	rec.ID = uuid.New()
	rec.TenantKey = key.String()
	rec.Marketplace = scope.Marketplace
	rec.FinancialYear = scope.FinancialYear
	rec.MonthNumber = scope.Month
	rec.SupplierID = scope.SupplierID
	rec.ImportBatchID = batch
	rec.NormalizedSKU = s.normalizer.Normalize(rec.RawSKU).String()
	rec.TaxRate = trade.NearestSlab(rec.TaxRate, s.slabs)
}
