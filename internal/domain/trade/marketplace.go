package trade

import (
	"strings"

	"github.com/gstledger/backend/internal/domain/shared"
)

// Marketplace identifies the e-commerce channel a record was exported from
type Marketplace string

const (
	MarketplaceMeesho   Marketplace = "meesho"
	MarketplaceFlipkart Marketplace = "flipkart"
	MarketplaceShopsy   Marketplace = "shopsy"
	MarketplaceAmazon   Marketplace = "amazon"
)

// ValidMarketplaces returns all supported marketplaces
func ValidMarketplaces() []Marketplace {
	return []Marketplace{MarketplaceMeesho, MarketplaceFlipkart, MarketplaceShopsy, MarketplaceAmazon}
}

// ParseMarketplace parses a marketplace name case-insensitively
func ParseMarketplace(s string) (Marketplace, error) {
	m := Marketplace(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range ValidMarketplaces() {
		if m == valid {
			return m, nil
		}
	}
	return "", shared.NewDomainError("INVALID_MARKETPLACE", "Unknown marketplace: "+s)
}

// String returns the marketplace name
func (m Marketplace) String() string {
	return string(m)
}

// RecordKind distinguishes the transactional record types handled by imports
type RecordKind string

const (
	KindSale    RecordKind = "sale"
	KindReturn  RecordKind = "return"
	KindInvoice RecordKind = "invoice"
)

// ParseRecordKind parses a record kind name
func ParseRecordKind(s string) (RecordKind, error) {
	k := RecordKind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindSale, KindReturn, KindInvoice:
		return k, nil
	}
	return "", shared.NewDomainError("INVALID_RECORD_KIND", "Unknown record kind: "+s)
}
