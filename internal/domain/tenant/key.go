package tenant

import (
	"regexp"
	"strings"

	"github.com/gstledger/backend/internal/domain/shared"
)

// Key is the canonical 15-character GST registration identifier (GSTIN) of a
// taxpaying seller. It is the sole unit of data isolation: every persisted
// transactional record carries exactly one Key, and no query may combine
// records belonging to two different Keys.
type Key string

// KeyLength is the fixed length of a GSTIN
const KeyLength = 15

// gstinPattern: 2-digit state code, PAN (5 letters, 4 digits, 1 letter),
// entity number, the literal 'Z', checksum character.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ParseKey validates and canonicalizes a raw GSTIN string
func ParseKey(raw string) (Key, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if len(s) != KeyLength {
		return "", shared.NewDomainError("INVALID_TENANT_KEY", "GSTIN must be exactly 15 characters")
	}
	if !gstinPattern.MatchString(s) {
		return "", shared.NewDomainError("INVALID_TENANT_KEY", "GSTIN does not match the registration format")
	}
	return Key(s), nil
}

// IsValidKey reports whether raw parses as a GSTIN
func IsValidKey(raw string) bool {
	_, err := ParseKey(raw)
	return err == nil
}

// String returns the key as a plain string
func (k Key) String() string {
	return string(k)
}

// IsZero reports whether the key is unset
func (k Key) IsZero() bool {
	return k == ""
}

// StateCode returns the two-digit state prefix of the registration.
// Used to decide inter-state vs intra-state supply.
func (k Key) StateCode() string {
	if len(k) < 2 {
		return ""
	}
	return string(k[:2])
}
