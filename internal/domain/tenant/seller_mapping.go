package tenant

import (
	"context"
	"strings"
	"time"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SellerMapping links a marketplace-specific supplier/account identifier to a
// seller registration. It is created the first time a file unambiguously
// reveals both, and consulted whenever a later file reveals only the supplier
// identifier.
type SellerMapping struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Marketplace  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_seller_mapping_source,priority:1"`
	SupplierID   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_seller_mapping_source,priority:2"`
	TenantKey    string    `gorm:"type:varchar(15);not null;index"`
	SupplierName string    `gorm:"type:varchar(200)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (SellerMapping) TableName() string {
	return "seller_mappings"
}

// NewSellerMapping creates a mapping from a supplier identifier to a validated key
func NewSellerMapping(marketplace, supplierID string, key Key, supplierName string) (*SellerMapping, error) {
	if strings.TrimSpace(supplierID) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_ID", "Supplier identifier cannot be empty")
	}
	if key.IsZero() {
		return nil, shared.ErrMissingTenantKey
	}
	now := time.Now()
	return &SellerMapping{
		ID:           uuid.New(),
		Marketplace:  marketplace,
		SupplierID:   strings.TrimSpace(supplierID),
		TenantKey:    key.String(),
		SupplierName: strings.TrimSpace(supplierName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Key returns the mapping's tenant key
func (m *SellerMapping) Key() Key {
	return Key(m.TenantKey)
}

// SellerMappingRepository persists supplier-to-registration mappings
type SellerMappingRepository interface {
	FindBySupplier(ctx context.Context, marketplace, supplierID string) (*SellerMapping, error)
	Upsert(ctx context.Context, mapping *SellerMapping) error
	FindAll(ctx context.Context) ([]SellerMapping, error)
}
