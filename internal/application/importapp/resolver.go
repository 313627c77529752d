package importapp

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/gstledger/backend/internal/domain/shared"
	"github.com/gstledger/backend/internal/domain/tenant"
	"github.com/gstledger/backend/internal/domain/trade"
	"github.com/gstledger/backend/internal/infrastructure/logger"
)

// SourceIdentity is what an export file reveals about the seller it belongs
// to. Some formats carry the registration directly on every row, some only a
// marketplace supplier account, some nothing at all.
type SourceIdentity struct {
	// DirectKeys are the distinct seller registrations found in the file
	DirectKeys []string
	// SupplierID is the marketplace supplier/account identifier, if present
	SupplierID string
	// SupplierName is the display name for the supplier, if present
	SupplierName string
}

// IdentityResolver derives the owning tenant key for an import. Resolution
// is per file: one file, one key, decided before any row is written.
//
// Policy, in order:
//  1. A registration present in the file itself wins. Two distinct
//     registrations in one file reject the whole file.
//  2. Otherwise the stored supplier mapping for (marketplace, supplier).
//  3. Otherwise a key the caller explicitly confirmed for this import.
//     Confirmation is always an argument; nothing is remembered between
//     calls on the resolver's side.
//
// Whenever a resolution pairs a supplier identifier with a key, the mapping
// is stored so later files from the same supplier resolve without help.
type IdentityResolver struct {
	mappings tenant.SellerMappingRepository
}

// NewIdentityResolver creates a resolver over the mapping repository
func NewIdentityResolver(mappings tenant.SellerMappingRepository) *IdentityResolver {
	return &IdentityResolver{mappings: mappings}
}

// Resolve returns the tenant key for an import, or ErrMixedTenantSource /
// ErrIdentityUnresolved when the policy cannot produce exactly one key
func (r *IdentityResolver) Resolve(ctx context.Context, marketplace trade.Marketplace, identity SourceIdentity, confirmed tenant.Key) (tenant.Key, error) {
	log := logger.L(ctx)

	if len(identity.DirectKeys) > 1 {
		log.Warn("file reveals multiple seller registrations",
			zap.Strings("registrations", identity.DirectKeys))
		return "", shared.ErrMixedTenantSource
	}

	if len(identity.DirectKeys) == 1 {
		key, err := tenant.ParseKey(identity.DirectKeys[0])
		if err != nil {
			return "", err
		}
		r.rememberMapping(ctx, marketplace, identity, key)
		return key, nil
	}

	if identity.SupplierID != "" {
		mapping, err := r.mappings.FindBySupplier(ctx, marketplace.String(), identity.SupplierID)
		if err == nil {
			return mapping.Key(), nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
	}

	if !confirmed.IsZero() {
		key, err := tenant.ParseKey(confirmed.String())
		if err != nil {
			return "", err
		}
		log.Info("tenant resolved from caller confirmation", zap.String("tenant_key", key.String()))
		r.rememberMapping(ctx, marketplace, identity, key)
		return key, nil
	}

	return "", shared.ErrIdentityUnresolved
}

// rememberMapping stores the supplier-to-registration pairing when the file
// carried a supplier identifier. Failures here never fail the import.
func (r *IdentityResolver) rememberMapping(ctx context.Context, marketplace trade.Marketplace, identity SourceIdentity, key tenant.Key) {
	if identity.SupplierID == "" {
		return
	}
	mapping, err := tenant.NewSellerMapping(marketplace.String(), identity.SupplierID, key, identity.SupplierName)
	if err != nil {
		logger.L(ctx).Warn("invalid seller mapping skipped", zap.Error(err))
		return
	}
	if err := r.mappings.Upsert(ctx, mapping); err != nil {
		logger.L(ctx).Warn("failed to store seller mapping",
			zap.String("supplier_id", identity.SupplierID), zap.Error(err))
	}
}
