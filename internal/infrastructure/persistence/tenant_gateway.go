package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
)

// TenantGateway is the read side for all reporting queries. Every method
// takes the tenant key as an explicit argument and fails closed: an empty
// key is an error, never an unscoped query. Joins carry the tenant filter on
// each joined table independently, so a row can never ride into a result set
// on the strength of its link alone.
type TenantGateway struct {
	db *gorm.DB
}

// NewTenantGateway creates a gateway over the given connection
func NewTenantGateway(db *Database) *TenantGateway {
	return &TenantGateway{db: db.DB}
}

func (g *TenantGateway) scoped(ctx context.Context, key tenant.Key) (*gorm.DB, error) {
	if key.IsZero() {
		return nil, shared.ErrMissingTenantKey
	}
	return g.db.WithContext(ctx), nil
}

// SalesForPeriod returns all sale records for the tenant in the period
func (g *TenantGateway) SalesForPeriod(ctx context.Context, key tenant.Key, period trade.Period) ([]trade.SaleRecord, error) {
	db, err := g.scoped(ctx, key)
	if err != nil {
		return nil, err
	}
	var records []trade.SaleRecord
	err = db.
		Where("tenant_key = ? AND financial_year = ? AND month_number = ?", string(key), period.FinancialYear, period.Month).
		Order("order_id, suborder_id").
		Find(&records).Error
	return records, err
}

// ReturnsForPeriod returns all return records for the tenant in the period
func (g *TenantGateway) ReturnsForPeriod(ctx context.Context, key tenant.Key, period trade.Period) ([]trade.ReturnRecord, error) {
	db, err := g.scoped(ctx, key)
	if err != nil {
		return nil, err
	}
	var records []trade.ReturnRecord
	err = db.
		Where("tenant_key = ? AND financial_year = ? AND month_number = ?", string(key), period.FinancialYear, period.Month).
		Order("order_id, suborder_id").
		Find(&records).Error
	return records, err
}

// InvoicesForPeriod returns all invoice records for the tenant in the period
func (g *TenantGateway) InvoicesForPeriod(ctx context.Context, key tenant.Key, period trade.Period) ([]trade.InvoiceRecord, error) {
	db, err := g.scoped(ctx, key)
	if err != nil {
		return nil, err
	}
	var records []trade.InvoiceRecord
	err = db.
		Where("tenant_key = ? AND financial_year = ? AND month_number = ?", string(key), period.FinancialYear, period.Month).
		Order("invoice_number").
		Find(&records).Error
	return records, err
}

// InvoiceSaleLink is one invoice record joined against the sale it was
// issued for. SaleID is nil when no sale of the same tenant matches the
// order, which the document register counts as cancelled.
type InvoiceSaleLink struct {
	trade.InvoiceRecord
	SaleID *uuid.UUID
}

// InvoiceSaleLinks joins invoices to sales by order identifier for the
// document register. The tenant filter is applied to the invoice side and to
// the sale side of the join separately; an invoice never picks up another
// tenant's sale through a shared marketplace order number.
func (g *TenantGateway) InvoiceSaleLinks(ctx context.Context, key tenant.Key, period trade.Period) ([]InvoiceSaleLink, error) {
	db, err := g.scoped(ctx, key)
	if err != nil {
		return nil, err
	}
	var links []InvoiceSaleLink
	err = db.
		Table("invoice_records").
		Select("invoice_records.*, sale_records.id AS sale_id").
		Joins("LEFT JOIN sale_records ON sale_records.order_id = invoice_records.order_id AND sale_records.tenant_key = ?", string(key)).
		Where("invoice_records.tenant_key = ? AND invoice_records.financial_year = ? AND invoice_records.month_number = ?",
			string(key), period.FinancialYear, period.Month).
		Order("invoice_records.invoice_number").
		Scan(&links).Error
	return links, err
}

// CountsForPeriod returns the raw record counts per table for the tenant and
// period, used by the monthly volume summary.
func (g *TenantGateway) CountsForPeriod(ctx context.Context, key tenant.Key, period trade.Period) (sales, returns, invoices int64, err error) {
	db, err := g.scoped(ctx, key)
	if err != nil {
		return 0, 0, 0, err
	}
	cond := "tenant_key = ? AND financial_year = ? AND month_number = ?"
	args := []any{string(key), period.FinancialYear, period.Month}

	if err = db.Model(&trade.SaleRecord{}).Where(cond, args...).Count(&sales).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = db.Model(&trade.ReturnRecord{}).Where(cond, args...).Count(&returns).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = db.Model(&trade.InvoiceRecord{}).Where(cond, args...).Count(&invoices).Error; err != nil {
		return 0, 0, 0, err
	}
	return sales, returns, invoices, nil
}
