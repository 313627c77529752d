package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
)

// SellerMappingRepositoryImpl implements tenant.SellerMappingRepository using
// GORM
type SellerMappingRepositoryImpl struct {
	db *gorm.DB
}

// NewSellerMappingRepository creates a new seller mapping repository
func NewSellerMappingRepository(db *Database) tenant.SellerMappingRepository {
	return &SellerMappingRepositoryImpl{db: db.DB}
}

// FindBySupplier looks up the mapping for a marketplace supplier identifier
func (r *SellerMappingRepositoryImpl) FindBySupplier(ctx context.Context, marketplace, supplierID string) (*tenant.SellerMapping, error) {
	var mapping tenant.SellerMapping
	err := r.db.WithContext(ctx).
		Where("marketplace = ? AND supplier_id = ?", marketplace, supplierID).
		First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &mapping, nil
}

// Upsert inserts the mapping or refreshes an existing one for the same
// marketplace and supplier
func (r *SellerMappingRepositoryImpl) Upsert(ctx context.Context, mapping *tenant.SellerMapping) error {
	mapping.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "marketplace"}, {Name: "supplier_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tenant_key", "supplier_name", "updated_at"}),
		}).
		Create(mapping).Error
}

// FindAll returns all stored mappings ordered by marketplace and supplier
func (r *SellerMappingRepositoryImpl) FindAll(ctx context.Context) ([]tenant.SellerMapping, error) {
	var mappings []tenant.SellerMapping
	err := r.db.WithContext(ctx).
		Order("marketplace, supplier_id").
		Find(&mappings).Error
	return mappings, err
}
