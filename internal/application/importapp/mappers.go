package importapp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
)

// mappedRow is the outcome of mapping one export row. A row produces a sale,
// a return, or neither (rows the format carries but the ledger does not
// track, like unshipped orders).
type mappedRow struct {
	sale *trade.SaleRecord
	ret  *trade.ReturnRecord
}

// salesRowMapper converts rows of one (marketplace, file kind) export format
// into typed records. Mappers are stateless; scope and tenant fields are
// stamped by the import service.
type salesRowMapper interface {
	// requiredHeaders are the columns the format must carry
	requiredHeaders() []string
	// kinds are the record tables this format feeds
	kinds() []trade.RecordKind
	// identity extracts what the file reveals about its seller
	identity(rows []*csvimport.Row) SourceIdentity
	// mapRow converts one row; a zero mappedRow means the row is not a
	// transaction
	mapRow(row *csvimport.Row) (mappedRow, error)
}

// salesMapperFor returns the mapper for a marketplace and file kind
func salesMapperFor(marketplace trade.Marketplace, kind trade.RecordKind) (salesRowMapper, error) {
	switch marketplace {
	case trade.MarketplaceMeesho:
		switch kind {
		case trade.KindSale:
			return meeshoMapper{returns: false}, nil
		case trade.KindReturn:
			return meeshoMapper{returns: true}, nil
		}
	case trade.MarketplaceFlipkart, trade.MarketplaceShopsy:
		if kind == trade.KindSale {
			return flipkartMapper{}, nil
		}
	case trade.MarketplaceAmazon:
		if kind == trade.KindSale {
			return amazonMapper{}, nil
		}
	}
	return nil, shared.NewDomainError("UNSUPPORTED_IMPORT",
		fmt.Sprintf("No %s import format for marketplace %s", kind, marketplace))
}

// ---------------------------------------------------------------------------
// Meesho

// meeshoMapper reads the Meesho TCS sales and sales-return sheets. Both carry
// the seller registration and the supplier account on every row; sales and
// returns come in separate files of the same shape.
type meeshoMapper struct {
	returns bool
}

func (meeshoMapper) requiredHeaders() []string {
	return []string{"sub_order_num", "order_date", "quantity", "total_taxable_sale_value"}
}

func (m meeshoMapper) kinds() []trade.RecordKind {
	if m.returns {
		return []trade.RecordKind{trade.KindReturn}
	}
	return []trade.RecordKind{trade.KindSale}
}

func (meeshoMapper) identity(rows []*csvimport.Row) SourceIdentity {
	var id SourceIdentity
	seen := make(map[string]bool)
	for _, row := range rows {
		if g := strings.ToUpper(strings.TrimSpace(row.Get("gstin"))); g != "" && !seen[g] {
			seen[g] = true
			id.DirectKeys = append(id.DirectKeys, g)
		}
		if id.SupplierID == "" {
			id.SupplierID = row.Get("supplier_id")
		}
		if id.SupplierName == "" {
			id.SupplierName = row.Get("sup_name")
		}
	}
	return id
}

func (m meeshoMapper) mapRow(row *csvimport.Row) (mappedRow, error) {
	suborder := row.Get("sub_order_num")
	if suborder == "" {
		return mappedRow{}, csvimport.NewRowError(row.LineNumber, "sub_order_num",
			csvimport.ErrCodeImportRequiredField, "suborder number is required")
	}
	orderDate, err := row.GetDate("order_date")
	if err != nil {
		return mappedRow{}, csvimport.NewRowErrorWithValue(row.LineNumber, "order_date",
			csvimport.ErrCodeImportInvalidDate, err.Error(), row.Get("order_date"))
	}
	quantity, taxable, rate, taxAmount, invoiceValue, err := meeshoAmounts(row)
	if err != nil {
		return mappedRow{}, err
	}

	if m.returns {
		return mappedRow{ret: &trade.ReturnRecord{
			OrderID:      suborder,
			SuborderID:   suborder,
			OrderDate:    orderDate,
			RawSKU:       row.GetAny("product name", "product_name"),
			HSNCode:      row.Get("hsn_code"),
			Quantity:     quantity,
			TaxableValue: taxable.Abs(),
			TaxRate:      rate,
			TaxAmount:    taxAmount.Abs(),
			ReturnValue:  invoiceValue.Abs(),
			NoteType:     trade.NoteTypeCredit,
			BuyerState:   row.Get("end_customer_state_new"),
		}}, nil
	}
	return mappedRow{sale: &trade.SaleRecord{
		OrderID:      suborder,
		SuborderID:   suborder,
		OrderDate:    orderDate,
		RawSKU:       row.GetAny("product name", "product_name"),
		HSNCode:      row.Get("hsn_code"),
		Quantity:     quantity,
		TaxableValue: taxable,
		TaxRate:      rate,
		TaxAmount:    taxAmount,
		InvoiceValue: invoiceValue,
		BuyerState:   row.Get("end_customer_state_new"),
	}}, nil
}

func meeshoAmounts(row *csvimport.Row) (int, decimal.Decimal, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	quantity := parseQuantity(row.Get("quantity"))
	taxable, err := row.GetDecimal("total_taxable_sale_value")
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
			csvimport.NewRowErrorWithValue(row.LineNumber, "total_taxable_sale_value",
				csvimport.ErrCodeImportInvalidValue, err.Error(), row.Get("total_taxable_sale_value"))
	}
	rate, err := row.GetDecimal("gst_rate")
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero,
			csvimport.NewRowErrorWithValue(row.LineNumber, "gst_rate",
				csvimport.ErrCodeImportInvalidValue, err.Error(), row.Get("gst_rate"))
	}
	taxAmount, _ := row.GetDecimal("tax_amount")
	invoiceValue, _ := row.GetDecimal("total_invoice_value")
	return quantity, taxable, trade.NormalizePercent(rate), taxAmount, invoiceValue, nil
}

// ---------------------------------------------------------------------------
// Flipkart / Shopsy

// flipkartMapper reads the Flipkart Sales Report sheet. One file mixes sale
// and return events, distinguished by the Event Type column, and reveals
// nothing about the seller: resolution relies on the stored supplier mapping
// or an explicit confirmation.
type flipkartMapper struct{}

func (flipkartMapper) requiredHeaders() []string {
	return []string{"Order ID", "Order Item ID", "Event Type", "SKU"}
}

func (flipkartMapper) kinds() []trade.RecordKind {
	return []trade.RecordKind{trade.KindSale, trade.KindReturn}
}

func (flipkartMapper) identity(rows []*csvimport.Row) SourceIdentity {
	return SourceIdentity{}
}

func (flipkartMapper) mapRow(row *csvimport.Row) (mappedRow, error) {
	orderID := row.Get("Order ID")
	if orderID == "" {
		return mappedRow{}, nil
	}
	eventType := strings.ToLower(row.Get("Event Type"))
	if eventType != "sale" && eventType != "return" {
		return mappedRow{}, nil
	}

	orderDate, err := row.GetDate("Order Date")
	if err != nil {
		return mappedRow{}, csvimport.NewRowErrorWithValue(row.LineNumber, "Order Date",
			csvimport.ErrCodeImportInvalidDate, err.Error(), row.Get("Order Date"))
	}

	taxable, _ := row.GetDecimal("Taxable Value (Final Invoice Amount -Taxes)")
	invoiceValue, _ := row.GetDecimal("Final Invoice Amount (Price after discount+Shipping Charges)")
	igstRate, _ := row.GetDecimal("IGST Rate")
	cgstRate, _ := row.GetDecimal("CGST Rate")
	sgstRate, _ := row.GetDecimal("SGST Rate (or UTGST as applicable)")
	igstAmt, _ := row.GetDecimal("IGST Amount")
	cgstAmt, _ := row.GetDecimal("CGST Amount")
	sgstAmt, _ := row.GetDecimal("SGST Amount (Or UTGST as applicable)")

	rate := trade.CombinedRate(
		trade.NormalizePercent(igstRate),
		trade.NormalizePercent(cgstRate),
		trade.NormalizePercent(sgstRate))
	taxAmount := igstAmt.Add(cgstAmt).Add(sgstAmt)
	quantity := parseQuantity(row.Get("Item Quantity"))

	if eventType == "return" {
		return mappedRow{ret: &trade.ReturnRecord{
			OrderID:      orderID,
			SuborderID:   row.Get("Order Item ID"),
			OrderDate:    orderDate,
			RawSKU:       row.Get("SKU"),
			Description:  row.Get("Product Title/Description"),
			HSNCode:      row.Get("HSN Code"),
			Quantity:     quantity,
			TaxableValue: taxable.Abs(),
			TaxRate:      rate,
			TaxAmount:    taxAmount.Abs(),
			ReturnValue:  invoiceValue.Abs(),
			NoteType:     trade.NoteTypeCredit,
			BuyerState:   row.Get("Customer's Delivery State"),
		}}, nil
	}

	sale := &trade.SaleRecord{
		OrderID:       orderID,
		SuborderID:    row.Get("Order Item ID"),
		OrderDate:     orderDate,
		RawSKU:        row.Get("SKU"),
		Description:   row.Get("Product Title/Description"),
		HSNCode:       row.Get("HSN Code"),
		Quantity:      quantity,
		TaxableValue:  taxable,
		TaxRate:       rate,
		TaxAmount:     taxAmount,
		InvoiceValue:  invoiceValue,
		InvoiceNumber: row.Get("Buyer Invoice ID"),
		BuyerState:    row.Get("Customer's Delivery State"),
	}
	if d, err := row.GetDate("Buyer Invoice Date"); err == nil {
		sale.InvoiceDate = &d
	}
	return mappedRow{sale: sale}, nil
}

// ---------------------------------------------------------------------------
// Amazon

// amazonMapper reads the Amazon MTR CSV. One file mixes shipments, refunds
// and cancellations under Transaction Type, and carries the seller
// registration on every row.
type amazonMapper struct{}

func (amazonMapper) requiredHeaders() []string {
	return []string{"Order Id", "Transaction Type", "Sku"}
}

func (amazonMapper) kinds() []trade.RecordKind {
	return []trade.RecordKind{trade.KindSale, trade.KindReturn}
}

func (amazonMapper) identity(rows []*csvimport.Row) SourceIdentity {
	var id SourceIdentity
	seen := make(map[string]bool)
	for _, row := range rows {
		if g := strings.ToUpper(strings.TrimSpace(row.Get("Seller Gstin"))); g != "" && !seen[g] {
			seen[g] = true
			id.DirectKeys = append(id.DirectKeys, g)
		}
	}
	return id
}

func (amazonMapper) mapRow(row *csvimport.Row) (mappedRow, error) {
	orderID := row.Get("Order Id")
	if orderID == "" {
		return mappedRow{}, nil
	}
	transaction := strings.ToLower(row.Get("Transaction Type"))

	orderDate, err := row.GetDate("Order Date")
	if err != nil {
		return mappedRow{}, csvimport.NewRowErrorWithValue(row.LineNumber, "Order Date",
			csvimport.ErrCodeImportInvalidDate, err.Error(), row.Get("Order Date"))
	}

	taxable, _ := row.GetDecimal("Tax Exclusive Gross")
	invoiceValue, _ := row.GetDecimal("Invoice Amount")
	igstRate, _ := row.GetDecimal("Igst Rate")
	cgstRate, _ := row.GetDecimal("Cgst Rate")
	sgstRate, _ := row.GetDecimal("Sgst Rate")
	igstAmt, _ := row.GetDecimal("Igst Tax")
	cgstAmt, _ := row.GetDecimal("Cgst Tax")
	sgstAmt, _ := row.GetDecimal("Sgst Tax")

	rate := trade.CombinedRate(
		trade.NormalizePercent(igstRate),
		trade.NormalizePercent(cgstRate),
		trade.NormalizePercent(sgstRate))
	taxAmount := igstAmt.Add(cgstAmt).Add(sgstAmt)
	quantity := parseQuantity(row.Get("Quantity"))
	buyerGSTIN := row.Get("Customer Bill To Gstid")

	switch transaction {
	case "shipment":
		sale := &trade.SaleRecord{
			OrderID:       orderID,
			SuborderID:    row.Get("Shipment Item Id"),
			OrderDate:     orderDate,
			RawSKU:        row.Get("Sku"),
			Description:   row.Get("Item Description"),
			HSNCode:       row.Get("Hsn/sac"),
			Quantity:      quantity,
			TaxableValue:  taxable,
			TaxRate:       rate,
			TaxAmount:     taxAmount,
			InvoiceValue:  invoiceValue,
			InvoiceNumber: row.Get("Invoice Number"),
			BuyerState:    row.Get("Ship To State"),
			BuyerGSTIN:    buyerGSTIN,
			BuyerName:     row.Get("Buyer Name"),
		}
		if d, err := row.GetDate("Invoice Date"); err == nil {
			sale.InvoiceDate = &d
		}
		return mappedRow{sale: sale}, nil

	case "refund", "cancel":
		ret := &trade.ReturnRecord{
			OrderID:       orderID,
			SuborderID:    row.Get("Shipment Item Id"),
			OrderDate:     orderDate,
			RawSKU:        row.Get("Sku"),
			Description:   row.Get("Item Description"),
			HSNCode:       row.Get("Hsn/sac"),
			Quantity:      quantity,
			TaxableValue:  taxable.Abs(),
			TaxRate:       rate,
			TaxAmount:     taxAmount.Abs(),
			ReturnValue:   invoiceValue.Abs(),
			NoteType:      trade.NoteTypeCredit,
			InvoiceNumber: row.Get("Invoice Number"),
			BuyerState:    row.Get("Ship To State"),
			BuyerGSTIN:    buyerGSTIN,
			BuyerName:     row.Get("Buyer Name"),
		}
		if d, err := row.GetDate("Invoice Date"); err == nil {
			ret.InvoiceDate = &d
		}
		return mappedRow{ret: ret}, nil
	}
	return mappedRow{}, nil
}

// ---------------------------------------------------------------------------
// Invoice listings

// invoiceRowMapper converts rows of a document-number listing
type invoiceRowMapper interface {
	requiredHeaders() []string
	mapRow(row *csvimport.Row) (*trade.InvoiceRecord, error)
}

// invoiceMapperFor returns the invoice listing mapper for a marketplace.
// Only the Meesho tax-invoice listing is a separate file; Flipkart and
// Amazon carry invoice numbers inline on the sales rows.
func invoiceMapperFor(marketplace trade.Marketplace) (invoiceRowMapper, error) {
	if marketplace == trade.MarketplaceMeesho {
		return meeshoInvoiceMapper{}, nil
	}
	return nil, shared.NewDomainError("UNSUPPORTED_IMPORT",
		fmt.Sprintf("No invoice import format for marketplace %s", marketplace))
}

type meeshoInvoiceMapper struct{}

func (meeshoInvoiceMapper) requiredHeaders() []string {
	return []string{"Suborder No.", "Invoice No."}
}

func (meeshoInvoiceMapper) mapRow(row *csvimport.Row) (*trade.InvoiceRecord, error) {
	suborder := row.Get("Suborder No.")
	invoiceNo := row.Get("Invoice No.")
	if suborder == "" || invoiceNo == "" {
		return nil, nil
	}
	record := &trade.InvoiceRecord{
		InvoiceNumber: invoiceNo,
		DocumentType:  trade.NormalizeDocumentType(row.Get("Type")),
		OrderID:       suborder,
		HSNCode:       row.Get("HSN"),
		Description:   row.Get("Product Description"),
	}
	if d, err := row.GetDate("Order Date"); err == nil {
		record.InvoiceDate = &d
	}
	return record, nil
}

func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
