package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
)

// InvoiceRecordRepositoryImpl implements trade.InvoiceRecordRepository using
// GORM
type InvoiceRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewInvoiceRecordRepository creates a new invoice record repository
func NewInvoiceRecordRepository(db *Database) trade.InvoiceRecordRepository {
	return &InvoiceRecordRepositoryImpl{db: db.DB}
}

// ReplaceForScope deletes prior records in the exact import scope and inserts
// the given ones in a single transaction
func (r *InvoiceRecordRepositoryImpl) ReplaceForScope(ctx context.Context, scope trade.ImportScope, tenantKey string, records []trade.InvoiceRecord) error {
	if tenantKey == "" {
		return shared.ErrMissingTenantKey
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
			Delete(&trade.InvoiceRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		for i := range records {
			if records[i].ID == uuid.Nil {
				records[i].ID = uuid.New()
			}
		}
		return tx.CreateInBatches(records, insertBatchSize).Error
	})
}

// CountForScope returns the number of stored records in a scope
func (r *InvoiceRecordRepositoryImpl) CountForScope(ctx context.Context, scope trade.ImportScope, tenantKey string) (int64, error) {
	if tenantKey == "" {
		return 0, shared.ErrMissingTenantKey
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&trade.InvoiceRecord{}).
		Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
		Count(&count).Error
	return count, err
}
