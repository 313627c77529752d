package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"INVALID_INPUT", http.StatusBadRequest},
		{"INVALID_SCOPE", http.StatusBadRequest},
		{"MISSING_TENANT_KEY", http.StatusBadRequest},
		{"UNSUPPORTED_IMPORT", http.StatusBadRequest},
		{"IDENTITY_UNRESOLVED", http.StatusUnprocessableEntity},
		{"MIXED_TENANT_SOURCE", http.StatusUnprocessableEntity},
		{"INVALID_STATE", http.StatusConflict},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponses(t *testing.T) {
	t.Run("success wraps data", func(t *testing.T) {
		resp := NewSuccessResponse(map[string]int{"rows": 3})
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		assert.Nil(t, resp.Error)
	})

	t.Run("error carries code and request id", func(t *testing.T) {
		resp := NewErrorResponse("NOT_FOUND", "gone", "req-1")
		assert.False(t, resp.Success)
		assert.Nil(t, resp.Data)
		assert.Equal(t, "NOT_FOUND", resp.Error.Code)
		assert.Equal(t, "gone", resp.Error.Message)
		assert.Equal(t, "req-1", resp.Error.RequestID)
	})
}
