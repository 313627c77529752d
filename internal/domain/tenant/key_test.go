package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKey(t *testing.T) {
	t.Run("accepts a valid registration", func(t *testing.T) {
		key, err := ParseKey("27AAAAA0000A1Z5")
		require.NoError(t, err)
		assert.Equal(t, "27AAAAA0000A1Z5", key.String())
	})

	t.Run("canonicalizes case and whitespace", func(t *testing.T) {
		key, err := ParseKey("  27aaaaa0000a1z5 ")
		require.NoError(t, err)
		assert.Equal(t, "27AAAAA0000A1Z5", key.String())
	})

	t.Run("rejects wrong length", func(t *testing.T) {
		_, err := ParseKey("27AAAAA0000A1Z")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "15 characters")
	})

	t.Run("rejects malformed registrations", func(t *testing.T) {
		for _, raw := range []string{
			"27AAAAA0000A1X5", // 14th char must be Z
			"2XAAAAA0000A1Z5", // state code must be digits
			"27AAAA00000A1Z5", // PAN shape broken
			"27AAAAA0000A0Z5", // entity number 0 is invalid
		} {
			_, err := ParseKey(raw)
			assert.Error(t, err, raw)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParseKey("")
		require.Error(t, err)
	})
}

func TestKeyStateCode(t *testing.T) {
	key, err := ParseKey("19BBBBB1111B2Z6")
	require.NoError(t, err)
	assert.Equal(t, "19", key.StateCode())

	var zero Key
	assert.Equal(t, "", zero.StateCode())
	assert.True(t, zero.IsZero())
	assert.False(t, key.IsZero())
}

func TestIsValidKey(t *testing.T) {
	assert.True(t, IsValidKey("27AAAAA0000A1Z5"))
	assert.False(t, IsValidKey("not-a-gstin"))
}

func TestNewSellerMapping(t *testing.T) {
	key, err := ParseKey("27AAAAA0000A1Z5")
	require.NoError(t, err)

	t.Run("creates mapping with trimmed fields", func(t *testing.T) {
		m, err := NewSellerMapping("meesho", " SUP123 ", key, " Acme Traders ")
		require.NoError(t, err)
		assert.Equal(t, "SUP123", m.SupplierID)
		assert.Equal(t, "Acme Traders", m.SupplierName)
		assert.Equal(t, key, m.Key())
		assert.NotEmpty(t, m.ID)
	})

	t.Run("rejects empty supplier identifier", func(t *testing.T) {
		_, err := NewSellerMapping("meesho", "  ", key, "")
		require.Error(t, err)
	})

	t.Run("rejects zero key", func(t *testing.T) {
		_, err := NewSellerMapping("meesho", "SUP123", Key(""), "")
		require.Error(t, err)
	})
}
