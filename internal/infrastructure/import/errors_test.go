package csvimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowErrorMessage(t *testing.T) {
	err := NewRowError(5, "gst_rate", ErrCodeImportInvalidValue, "bad rate")
	assert.Equal(t, "row 5, column 'gst_rate': bad rate", err.Error())

	err = NewRowError(5, "", ErrCodeImportMalformedRow, "broken")
	assert.Equal(t, "row 5: broken", err.Error())

	withValue := NewRowErrorWithValue(3, "quantity", ErrCodeImportInvalidValue, "bad", "x")
	assert.Equal(t, "x", withValue.Value)
}

func TestErrorCollection(t *testing.T) {
	t.Run("keeps errors up to the limit but counts all", func(t *testing.T) {
		ec := NewErrorCollection(2)
		for i := 0; i < 5; i++ {
			ec.AddRequiredError(i+2, "sub_order_num")
		}
		assert.Equal(t, 2, ec.Count())
		assert.Equal(t, 5, ec.TotalCount())
		assert.True(t, ec.IsTruncated())
		assert.True(t, ec.HasErrors())
	})

	t.Run("empty collection", func(t *testing.T) {
		ec := NewErrorCollection(10)
		assert.False(t, ec.HasErrors())
		assert.False(t, ec.IsTruncated())
		assert.Equal(t, "no errors", ec.String())
	})

	t.Run("non-positive limit falls back to default", func(t *testing.T) {
		ec := NewErrorCollection(0)
		ec.AddValueError(2, "a", "bad", "v")
		assert.Equal(t, 1, ec.Count())
		assert.False(t, ec.IsTruncated())
	})
}
