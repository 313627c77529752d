package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
)

// ReturnRecordRepositoryImpl implements trade.ReturnRecordRepository using GORM
type ReturnRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewReturnRecordRepository creates a new return record repository
func NewReturnRecordRepository(db *Database) trade.ReturnRecordRepository {
	return &ReturnRecordRepositoryImpl{db: db.DB}
}

// ReplaceForScope deletes prior records in the exact import scope and inserts
// the given ones in a single transaction
func (r *ReturnRecordRepositoryImpl) ReplaceForScope(ctx context.Context, scope trade.ImportScope, tenantKey string, records []trade.ReturnRecord) error {
	if tenantKey == "" {
		return shared.ErrMissingTenantKey
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceReturnRecordsIn(tx, scope, tenantKey, records)
	})
}

// CountForScope returns the number of stored records in a scope
func (r *ReturnRecordRepositoryImpl) CountForScope(ctx context.Context, scope trade.ImportScope, tenantKey string) (int64, error) {
	if tenantKey == "" {
		return 0, shared.ErrMissingTenantKey
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.ReturnRecord{}).
		Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
		Count(&count).Error
	return count, err
}
