package report

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/domain/catalog"
	"github.com/gstledger/backend/internal/domain/report"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	"github.com/gstledger/backend/internal/infrastructure/logger"
	"github.com/gstledger/backend/internal/infrastructure/persistence"
)

// AggregationService builds the statutory summary tables for one tenant and
// period. All reads go through the tenant-scoped gateway; amounts accumulate
// as exact decimals and are rounded to two places only when a row is
// emitted. Outputs are sorted by their natural keys so identical inputs
// always produce identical tables.
type AggregationService struct {
	gateway        *persistence.TenantGateway
	costs          catalog.CostTable
	largeThreshold decimal.Decimal
	fixedCost      decimal.Decimal
}

// NewAggregationService creates an aggregation service
func NewAggregationService(gateway *persistence.TenantGateway, costs catalog.CostTable, largeThreshold, fixedCostPerOrder decimal.Decimal) *AggregationService {
	return &AggregationService{
		gateway:        gateway,
		costs:          costs,
		largeThreshold: largeThreshold,
		fixedCost:      fixedCostPerOrder,
	}
}

type stateRateKey struct {
	place string
	rate  string
}

type stateRateBucket struct {
	taxable  decimal.Decimal
	tax      decimal.Decimal
	quantity int64
	rate     decimal.Decimal
	hasSale  bool
}

// RateWiseSummary returns the consolidated (place of supply, rate) table for
// supplies to unregistered buyers. Returns are netted against sales; a group
// whose net is zero or negative is kept and flagged as a reversal when a
// sale contributed to it.
func (s *AggregationService) RateWiseSummary(ctx context.Context, key tenant.Key, period trade.Period) ([]report.RateWiseSummaryRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}
	returns, err := s.gateway.ReturnsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	buckets := make(map[stateRateKey]*stateRateBucket)
	bucket := func(place string, rate decimal.Decimal) *stateRateBucket {
		k := stateRateKey{place: place, rate: rate.String()}
		b, ok := buckets[k]
		if !ok {
			b = &stateRateBucket{taxable: decimal.Zero, tax: decimal.Zero, rate: rate}
			buckets[k] = b
		}
		return b
	}

	for i := range sales {
		sale := &sales[i]
		if sale.IsRegisteredBuyer() {
			continue
		}
		b := bucket(report.PlaceOfSupply(sale.BuyerState), sale.TaxRate)
		b.taxable = b.taxable.Add(sale.TaxableValue)
		b.tax = b.tax.Add(sale.TaxAmount)
		b.quantity += int64(sale.Quantity)
		b.hasSale = true
	}
	for i := range returns {
		ret := &returns[i]
		if ret.IsRegisteredBuyer() {
			continue
		}
		b := bucket(report.PlaceOfSupply(ret.BuyerState), ret.TaxRate)
		b.taxable = b.taxable.Sub(ret.TaxableValue)
		b.tax = b.tax.Sub(ret.TaxAmount)
		b.quantity -= int64(ret.Quantity)
	}

	rows := make([]report.RateWiseSummaryRow, 0, len(buckets))
	for k, b := range buckets {
		rows = append(rows, report.RateWiseSummaryRow{
			PlaceOfSupply: k.place,
			Rate:          b.rate,
			TaxableValue:  b.taxable.Round(2),
			TaxAmount:     b.tax.Round(2),
			Quantity:      b.quantity,
			IsReversal:    b.hasSale && !b.taxable.IsPositive(),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PlaceOfSupply != rows[j].PlaceOfSupply {
			return rows[i].PlaceOfSupply < rows[j].PlaceOfSupply
		}
		return rows[i].Rate.LessThan(rows[j].Rate)
	})
	return rows, nil
}

// LargeInvoices returns inter-state supplies to unregistered buyers whose
// invoice value exceeds the configured threshold. The threshold compares the
// full invoice value before any grouping; rows keep invoice granularity.
func (s *AggregationService) LargeInvoices(ctx context.Context, key tenant.Key, period trade.Period) ([]report.LargeInvoiceRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	sellerState := key.StateCode()
	var rows []report.LargeInvoiceRow
	for i := range sales {
		sale := &sales[i]
		if sale.IsRegisteredBuyer() {
			continue
		}
		if !sale.InvoiceValue.GreaterThan(s.largeThreshold) {
			continue
		}
		buyerState := report.StateNumericCode(sale.BuyerState)
		if buyerState == "" || buyerState == sellerState {
			continue
		}
		rows = append(rows, report.LargeInvoiceRow{
			InvoiceNumber: sale.InvoiceNumber,
			InvoiceDate:   sale.InvoiceDate,
			PlaceOfSupply: report.PlaceOfSupply(sale.BuyerState),
			Rate:          sale.TaxRate,
			InvoiceValue:  sale.InvoiceValue.Round(2),
			TaxableValue:  sale.TaxableValue.Round(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].InvoiceNumber != rows[j].InvoiceNumber {
			return rows[i].InvoiceNumber < rows[j].InvoiceNumber
		}
		if !rows[i].Rate.Equal(rows[j].Rate) {
			return rows[i].Rate.LessThan(rows[j].Rate)
		}
		return rows[i].TaxableValue.LessThan(rows[j].TaxableValue)
	})
	return rows, nil
}

// B2BSummary returns supplies to registered buyers grouped by counterpart
// registration and rate, alongside the count of unregistered-buyer rows
// that fell outside the table
func (s *AggregationService) B2BSummary(ctx context.Context, key tenant.Key, period trade.Period) (*report.B2BSummary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	type b2bKey struct {
		gstin string
		rate  string
	}
	type b2bBucket struct {
		name     string
		rate     decimal.Decimal
		taxable  decimal.Decimal
		tax      decimal.Decimal
		invoices map[string]bool
	}
	buckets := make(map[b2bKey]*b2bBucket)
	var ineligible int64
	for i := range sales {
		sale := &sales[i]
		if !sale.IsRegisteredBuyer() {
			ineligible++
			continue
		}
		k := b2bKey{gstin: sale.BuyerGSTIN, rate: sale.TaxRate.String()}
		b, ok := buckets[k]
		if !ok {
			b = &b2bBucket{name: sale.BuyerName, rate: sale.TaxRate,
				taxable: decimal.Zero, tax: decimal.Zero, invoices: make(map[string]bool)}
			buckets[k] = b
		}
		b.taxable = b.taxable.Add(sale.TaxableValue)
		b.tax = b.tax.Add(sale.TaxAmount)
		if sale.InvoiceNumber != "" {
			b.invoices[sale.InvoiceNumber] = true
		}
	}
	logger.L(ctx).Debug("b2b summary built",
		zap.Int("groups", len(buckets)), zap.Int64("unregistered_rows", ineligible))

	rows := make([]report.B2BSummaryRow, 0, len(buckets))
	for k, b := range buckets {
		rows = append(rows, report.B2BSummaryRow{
			BuyerGSTIN:   k.gstin,
			BuyerName:    b.name,
			Rate:         b.rate,
			TaxableValue: b.taxable.Round(2),
			TaxAmount:    b.tax.Round(2),
			InvoiceCount: int64(len(b.invoices)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BuyerGSTIN != rows[j].BuyerGSTIN {
			return rows[i].BuyerGSTIN < rows[j].BuyerGSTIN
		}
		return rows[i].Rate.LessThan(rows[j].Rate)
	})
	return &report.B2BSummary{Rows: rows, IneligibleCount: ineligible}, nil
}

// CreditDebitNotes returns notes issued to registered buyers. Amounts are
// positive magnitudes; the note type carries the direction, and the note
// number derives from the originating invoice number.
func (s *AggregationService) CreditDebitNotes(ctx context.Context, key tenant.Key, period trade.Period) ([]report.CreditDebitNoteRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	returns, err := s.gateway.ReturnsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	var rows []report.CreditDebitNoteRow
	for i := range returns {
		ret := &returns[i]
		if !ret.IsRegisteredBuyer() {
			continue
		}
		rows = append(rows, report.CreditDebitNoteRow{
			BuyerGSTIN:    ret.BuyerGSTIN,
			BuyerName:     ret.BuyerName,
			NoteNumber:    ret.NoteType.NoteNumber(ret.InvoiceNumber),
			NoteDate:      ret.InvoiceDate,
			NoteType:      string(ret.NoteType),
			PlaceOfSupply: report.PlaceOfSupply(ret.BuyerState),
			Rate:          ret.TaxRate,
			NoteValue:     ret.ReturnValue.Abs().Round(2),
			TaxableValue:  ret.TaxableValue.Abs().Round(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BuyerGSTIN != rows[j].BuyerGSTIN {
			return rows[i].BuyerGSTIN < rows[j].BuyerGSTIN
		}
		// Notes against the same invoice share a note number; rate and
		// amount break the tie so storage order never shows through
		if rows[i].NoteNumber != rows[j].NoteNumber {
			return rows[i].NoteNumber < rows[j].NoteNumber
		}
		if !rows[i].Rate.Equal(rows[j].Rate) {
			return rows[i].Rate.LessThan(rows[j].Rate)
		}
		return rows[i].TaxableValue.LessThan(rows[j].TaxableValue)
	})
	return rows, nil
}

// ClassificationSummary returns the per-HSN table with returns netted and
// registered/unregistered taxable subtotals side by side
func (s *AggregationService) ClassificationSummary(ctx context.Context, key tenant.Key, period trade.Period) ([]report.ClassificationSummaryRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}
	returns, err := s.gateway.ReturnsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	type hsnBucket struct {
		description  string
		quantity     int64
		taxable      decimal.Decimal
		tax          decimal.Decimal
		registered   decimal.Decimal
		unregistered decimal.Decimal
	}
	buckets := make(map[string]*hsnBucket)
	bucket := func(hsn string) *hsnBucket {
		b, ok := buckets[hsn]
		if !ok {
			b = &hsnBucket{taxable: decimal.Zero, tax: decimal.Zero,
				registered: decimal.Zero, unregistered: decimal.Zero}
			buckets[hsn] = b
		}
		return b
	}

	for i := range sales {
		sale := &sales[i]
		b := bucket(sale.HSNCode)
		if b.description == "" {
			b.description = sale.Description
		}
		b.quantity += int64(sale.Quantity)
		b.taxable = b.taxable.Add(sale.TaxableValue)
		b.tax = b.tax.Add(sale.TaxAmount)
		if sale.IsRegisteredBuyer() {
			b.registered = b.registered.Add(sale.TaxableValue)
		} else {
			b.unregistered = b.unregistered.Add(sale.TaxableValue)
		}
	}
	for i := range returns {
		ret := &returns[i]
		b := bucket(ret.HSNCode)
		b.quantity -= int64(ret.Quantity)
		b.taxable = b.taxable.Sub(ret.TaxableValue)
		b.tax = b.tax.Sub(ret.TaxAmount)
		if ret.IsRegisteredBuyer() {
			b.registered = b.registered.Sub(ret.TaxableValue)
		} else {
			b.unregistered = b.unregistered.Sub(ret.TaxableValue)
		}
	}

	rows := make([]report.ClassificationSummaryRow, 0, len(buckets))
	for hsn, b := range buckets {
		rows = append(rows, report.ClassificationSummaryRow{
			HSNCode:                  hsn,
			Description:              b.description,
			Quantity:                 b.quantity,
			TaxableValue:             b.taxable.Round(2),
			TaxAmount:                b.tax.Round(2),
			RegisteredTaxableValue:   b.registered.Round(2),
			UnregisteredTaxableValue: b.unregistered.Round(2),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].HSNCode < rows[j].HSNCode
	})
	return rows, nil
}

// DocumentRegister enumerates the document-number series issued in the
// period. An invoice with no live sale of the same tenant on its order
// counts as cancelled.
func (s *AggregationService) DocumentRegister(ctx context.Context, key tenant.Key, period trade.Period) ([]report.DocumentRegisterRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	links, err := s.gateway.InvoiceSaleLinks(ctx, key, period)
	if err != nil {
		return nil, err
	}

	type seriesKey struct {
		docType trade.DocumentType
		prefix  string
	}
	type seriesBucket struct {
		minNum    int64
		maxNum    int64
		minFull   string
		maxFull   string
		total     int64
		cancelled int64
	}
	buckets := make(map[seriesKey]*seriesBucket)
	for i := range links {
		link := &links[i]
		prefix, num := trade.SplitInvoiceNumber(link.InvoiceNumber)
		k := seriesKey{docType: link.DocumentType, prefix: prefix}
		b, ok := buckets[k]
		if !ok {
			b = &seriesBucket{minNum: num, maxNum: num,
				minFull: link.InvoiceNumber, maxFull: link.InvoiceNumber}
			buckets[k] = b
		}
		if num < b.minNum {
			b.minNum = num
			b.minFull = link.InvoiceNumber
		}
		if num > b.maxNum {
			b.maxNum = num
			b.maxFull = link.InvoiceNumber
		}
		b.total++
		if link.SaleID == nil {
			b.cancelled++
		}
	}

	rows := make([]report.DocumentRegisterRow, 0, len(buckets))
	for k, b := range buckets {
		rows = append(rows, report.DocumentRegisterRow{
			DocumentType: string(k.docType),
			SeriesFrom:   b.minFull,
			SeriesTo:     b.maxFull,
			TotalCount:   b.total,
			Cancelled:    b.cancelled,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DocumentType != rows[j].DocumentType {
			return rows[i].DocumentType < rows[j].DocumentType
		}
		return rows[i].SeriesFrom < rows[j].SeriesFrom
	})
	return rows, nil
}

// MonthlySummary returns the volume sanity-check for the tenant and period
func (s *AggregationService) MonthlySummary(ctx context.Context, key tenant.Key, period trade.Period) (*report.MonthlySummary, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}
	returns, err := s.gateway.ReturnsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}
	saleCount, returnCount, invoiceCount, err := s.gateway.CountsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	var saleQty, returnQty int64
	net := decimal.Zero
	for i := range sales {
		saleQty += int64(sales[i].Quantity)
		net = net.Add(sales[i].TaxableValue)
	}
	for i := range returns {
		returnQty += int64(returns[i].Quantity)
		net = net.Sub(returns[i].TaxableValue)
	}

	return &report.MonthlySummary{
		SaleQuantity:     saleQty,
		ReturnQuantity:   returnQty,
		NetQuantity:      saleQty - returnQty,
		NetTaxableValue:  net.Round(2),
		SaleRecordCount:  saleCount,
		ReturnRecordCnt:  returnCount,
		InvoiceRecordCnt: invoiceCount,
	}, nil
}

// Profitability returns the per-product analytics view. Revenue is net
// taxable value; product cost comes from the externally supplied cost table
// keyed by normalized product key, and the fixed per-line charge comes from
// configuration.
func (s *AggregationService) Profitability(ctx context.Context, key tenant.Key, period trade.Period) ([]report.ProfitabilityRow, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.gateway.SalesForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}
	returns, err := s.gateway.ReturnsForPeriod(ctx, key, period)
	if err != nil {
		return nil, err
	}

	type skuBucket struct {
		quantity int64
		lines    int64
		revenue  decimal.Decimal
	}
	buckets := make(map[string]*skuBucket)
	bucket := func(sku string) *skuBucket {
		b, ok := buckets[sku]
		if !ok {
			b = &skuBucket{revenue: decimal.Zero}
			buckets[sku] = b
		}
		return b
	}
	for i := range sales {
		b := bucket(sales[i].NormalizedSKU)
		b.quantity += int64(sales[i].Quantity)
		b.lines++
		b.revenue = b.revenue.Add(sales[i].TaxableValue)
	}
	for i := range returns {
		b := bucket(returns[i].NormalizedSKU)
		b.quantity -= int64(returns[i].Quantity)
		b.revenue = b.revenue.Sub(returns[i].TaxableValue)
	}

	rows := make([]report.ProfitabilityRow, 0, len(buckets))
	for sku, b := range buckets {
		unitCost, known := s.costs.Price(catalog.NormalizedSKU(sku))
		productCost := decimal.Zero
		if known && b.quantity > 0 {
			productCost = unitCost.Mul(decimal.NewFromInt(b.quantity))
		}
		fixedCost := s.fixedCost.Mul(decimal.NewFromInt(b.lines))
		rows = append(rows, report.ProfitabilityRow{
			NormalizedSKU: sku,
			Quantity:      b.quantity,
			Revenue:       b.revenue.Round(2),
			ProductCost:   productCost.Round(2),
			FixedCost:     fixedCost.Round(2),
			Profit:        b.revenue.Sub(productCost).Sub(fixedCost).Round(2),
			CostKnown:     known,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].NormalizedSKU < rows[j].NormalizedSKU
	})
	return rows, nil
}
