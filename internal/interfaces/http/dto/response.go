package dto

import "net/http"

// Response represents a standard API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			RequestID: requestID,
		},
	}
}

// statusByCode maps domain error codes onto HTTP status codes
var statusByCode = map[string]int{
	"NOT_FOUND":           http.StatusNotFound,
	"ALREADY_EXISTS":      http.StatusConflict,
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_SCOPE":       http.StatusBadRequest,
	"INVALID_PERIOD":      http.StatusBadRequest,
	"INVALID_MARKETPLACE": http.StatusBadRequest,
	"INVALID_RECORD_KIND": http.StatusBadRequest,
	"INVALID_TENANT_KEY":  http.StatusBadRequest,
	"MISSING_TENANT_KEY":  http.StatusBadRequest,
	"UNSUPPORTED_IMPORT":  http.StatusBadRequest,
	"IDENTITY_UNRESOLVED": http.StatusUnprocessableEntity,
	"MIXED_TENANT_SOURCE": http.StatusUnprocessableEntity,
	"TENANT_MISMATCH":     http.StatusUnprocessableEntity,
	"INVALID_STATE":       http.StatusConflict,
}

// GetHTTPStatus returns the status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
