package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// TableKind selects one of the statutory summary tables
type TableKind string

const (
	TableRateWise       TableKind = "rate_wise"
	TableLargeInvoices  TableKind = "large_invoices"
	TableB2B            TableKind = "b2b"
	TableCreditDebit    TableKind = "credit_debit_notes"
	TableClassification TableKind = "classification"
	TableDocRegister    TableKind = "doc_register"
)

// RateWiseSummaryRow is one (place of supply, rate) group of the consolidated
// summary. Sales and returns are netted algebraically before rounding. Groups
// whose net value is zero or negative after netting are still emitted when a
// constituent sale existed, flagged as reversals.
type RateWiseSummaryRow struct {
	PlaceOfSupply string          `json:"place_of_supply"`
	Rate          decimal.Decimal `json:"rate"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Quantity      int64           `json:"quantity"`
	IsReversal    bool            `json:"is_reversal,omitempty"`
}

// LargeInvoiceRow is one invoice whose invoice-level value exceeds the
// configured threshold. Unlike the consolidated summary it keeps invoice
// granularity; the threshold is compared before any grouping.
type LargeInvoiceRow struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   *time.Time      `json:"invoice_date,omitempty"`
	PlaceOfSupply string          `json:"place_of_supply"`
	Rate          decimal.Decimal `json:"rate"`
	InvoiceValue  decimal.Decimal `json:"invoice_value"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
}

// B2BSummary is the registered-buyer table together with the number of
// source rows that did not qualify for it. Callers reconcile row counts
// against the imported period using IneligibleCount.
type B2BSummary struct {
	Rows            []B2BSummaryRow `json:"rows"`
	IneligibleCount int64           `json:"ineligible_count"`
}

// B2BSummaryRow is one (counterpart registration, rate) group of supplies to
// registered buyers
type B2BSummaryRow struct {
	BuyerGSTIN   string          `json:"buyer_gstin"`
	BuyerName    string          `json:"buyer_name,omitempty"`
	Rate         decimal.Decimal `json:"rate"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	InvoiceCount int64           `json:"invoice_count"`
}

// CreditDebitNoteRow is one note issued to a registered buyer. Values are
// positive magnitudes; NoteType carries the direction.
type CreditDebitNoteRow struct {
	BuyerGSTIN    string          `json:"buyer_gstin"`
	BuyerName     string          `json:"buyer_name,omitempty"`
	NoteNumber    string          `json:"note_number"`
	NoteDate      *time.Time      `json:"note_date,omitempty"`
	NoteType      string          `json:"note_type"`
	PlaceOfSupply string          `json:"place_of_supply"`
	Rate          decimal.Decimal `json:"rate"`
	NoteValue     decimal.Decimal `json:"note_value"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
}

// ClassificationSummaryRow is one product classification (HSN) group, with
// registered-buyer and unregistered-buyer subtotals side by side
type ClassificationSummaryRow struct {
	HSNCode                  string          `json:"hsn_code"`
	Description              string          `json:"description,omitempty"`
	Quantity                 int64           `json:"quantity"`
	TaxableValue             decimal.Decimal `json:"taxable_value"`
	TaxAmount                decimal.Decimal `json:"tax_amount"`
	RegisteredTaxableValue   decimal.Decimal `json:"registered_taxable_value"`
	UnregisteredTaxableValue decimal.Decimal `json:"unregistered_taxable_value"`
}

// DocumentRegisterRow is one issued document-number series in the period
type DocumentRegisterRow struct {
	DocumentType string `json:"document_type"`
	SeriesFrom   string `json:"series_from"`
	SeriesTo     string `json:"series_to"`
	TotalCount   int64  `json:"total_count"`
	Cancelled    int64  `json:"cancelled"`
}

// MonthlySummary is the volume sanity-check for one tenant and period
type MonthlySummary struct {
	SaleQuantity     int64           `json:"sale_quantity"`
	ReturnQuantity   int64           `json:"return_quantity"`
	NetQuantity      int64           `json:"net_quantity"`
	NetTaxableValue  decimal.Decimal `json:"net_taxable_value"`
	SaleRecordCount  int64           `json:"sale_record_count"`
	ReturnRecordCnt  int64           `json:"return_record_count"`
	InvoiceRecordCnt int64           `json:"invoice_record_count"`
}

// ProfitabilityRow is the per-product analytics view driven by the SKU
// normalizer and the externally supplied cost table
type ProfitabilityRow struct {
	NormalizedSKU string          `json:"normalized_sku"`
	Quantity      int64           `json:"quantity"`
	Revenue       decimal.Decimal `json:"revenue"`
	ProductCost   decimal.Decimal `json:"product_cost"`
	FixedCost     decimal.Decimal `json:"fixed_cost"`
	Profit        decimal.Decimal `json:"profit"`
	CostKnown     bool            `json:"cost_known"`
}
