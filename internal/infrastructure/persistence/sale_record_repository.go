package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
)

const insertBatchSize = 500

// SaleRecordRepositoryImpl implements trade.SaleRecordRepository using GORM
type SaleRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewSaleRecordRepository creates a new sale record repository
func NewSaleRecordRepository(db *Database) trade.SaleRecordRepository {
	return &SaleRecordRepositoryImpl{db: db.DB}
}

// ReplaceForScope deletes prior records in the exact import scope and inserts
// the given ones in a single transaction
func (r *SaleRecordRepositoryImpl) ReplaceForScope(ctx context.Context, scope trade.ImportScope, tenantKey string, records []trade.SaleRecord) error {
	if tenantKey == "" {
		return shared.ErrMissingTenantKey
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceSaleRecordsIn(tx, scope, tenantKey, records)
	})
}

// CountForScope returns the number of stored records in a scope
func (r *SaleRecordRepositoryImpl) CountForScope(ctx context.Context, scope trade.ImportScope, tenantKey string) (int64, error) {
	if tenantKey == "" {
		return 0, shared.ErrMissingTenantKey
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.SaleRecord{}).
		Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
		Count(&count).Error
	return count, err
}

// TenantKeysByOrder returns the tenant key of the stored sale for each order
// identifier that has one
func (r *SaleRecordRepositoryImpl) TenantKeysByOrder(ctx context.Context, orderIDs []string) (map[string]string, error) {
	keys := make(map[string]string, len(orderIDs))
	if len(orderIDs) == 0 {
		return keys, nil
	}
	type pair struct {
		OrderID   string
		TenantKey string
	}
	var pairs []pair
	err := r.db.WithContext(ctx).Model(&trade.SaleRecord{}).
		Select("order_id", "tenant_key").
		Where("order_id IN ?", orderIDs).
		Find(&pairs).Error
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		keys[p.OrderID] = p.TenantKey
	}
	return keys, nil
}

// scopeCondition matches the exact replace-on-reimport scope. SupplierID
// participates even when empty: a file without a supplier column only ever
// replaces records imported without one.
const scopeCondition = "marketplace = ? AND tenant_key = ? AND financial_year = ? AND month_number = ? AND supplier_id = ?"
