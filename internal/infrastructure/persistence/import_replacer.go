package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/trade"
)

// ImportReplacerImpl implements trade.ImportReplacer using GORM
type ImportReplacerImpl struct {
	db *gorm.DB
}

// NewImportReplacer creates a replacer that spans the sale and return tables
func NewImportReplacer(db *Database) trade.ImportReplacer {
	return &ImportReplacerImpl{db: db.DB}
}

// ReplaceForScope replaces the scope's records in every table the file kind
// feeds, inside one transaction
func (r *ImportReplacerImpl) ReplaceForScope(ctx context.Context, scope trade.ImportScope, tenantKey string, sales []trade.SaleRecord, returns []trade.ReturnRecord, kinds []trade.RecordKind) error {
	if tenantKey == "" {
		return shared.ErrMissingTenantKey
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, kind := range kinds {
			switch kind {
			case trade.KindSale:
				if err := replaceSaleRecordsIn(tx, scope, tenantKey, sales); err != nil {
					return err
				}
			case trade.KindReturn:
				if err := replaceReturnRecordsIn(tx, scope, tenantKey, returns); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// replaceSaleRecordsIn runs the delete-and-insert for one scope inside the
// caller's transaction
func replaceSaleRecordsIn(tx *gorm.DB, scope trade.ImportScope, tenantKey string, records []trade.SaleRecord) error {
	if err := tx.
		Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
		Delete(&trade.SaleRecord{}).Error; err != nil {
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
}

func replaceReturnRecordsIn(tx *gorm.DB, scope trade.ImportScope, tenantKey string, records []trade.ReturnRecord) error {
	if err := tx.
		Where(scopeCondition, string(scope.Marketplace), tenantKey, scope.FinancialYear, scope.Month, scope.SupplierID).
		Delete(&trade.ReturnRecord{}).Error; err != nil {
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
}
