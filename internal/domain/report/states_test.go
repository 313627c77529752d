package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceOfSupply(t *testing.T) {
	t.Run("maps state names case-insensitively", func(t *testing.T) {
		assert.Equal(t, "27-Maharashtra", PlaceOfSupply("Maharashtra"))
		assert.Equal(t, "27-Maharashtra", PlaceOfSupply("MAHARASHTRA"))
		assert.Equal(t, "19-West Bengal", PlaceOfSupply("west bengal"))
	})

	t.Run("handles alternative spellings", func(t *testing.T) {
		assert.Equal(t, "21-Odisha", PlaceOfSupply("Orissa"))
		assert.Equal(t, "34-Puducherry", PlaceOfSupply("Pondicherry"))
		assert.Equal(t, "38-Ladakh", PlaceOfSupply("Leh Ladakh"))
		assert.Equal(t, "01-Jammu and Kashmir", PlaceOfSupply("Jammu & Kashmir"))
	})

	t.Run("unknown states pass through trimmed", func(t *testing.T) {
		assert.Equal(t, "Atlantis", PlaceOfSupply("  Atlantis "))
	})

	t.Run("empty input returns empty", func(t *testing.T) {
		assert.Equal(t, "", PlaceOfSupply("   "))
	})
}

func TestStateNumericCode(t *testing.T) {
	assert.Equal(t, "27", StateNumericCode("Maharashtra"))
	assert.Equal(t, "07", StateNumericCode("Delhi"))
	assert.Equal(t, "", StateNumericCode("Atlantis"))
	assert.Equal(t, "", StateNumericCode(""))
}
