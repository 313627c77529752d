package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gstledger/backend/internal/domain/shared"
	csvimport "github.com/gstledger/backend/internal/infrastructure/import"
	"github.com/gstledger/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the gin context key for the request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse("INVALID_INPUT", message, getRequestID(c)))
}

// HandleError converts domain and import errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	var rowErr csvimport.RowError
	if errors.As(err, &rowErr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(rowErr.Code, rowErr.Error(), requestID))
		return
	}

	switch {
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrInvalidEncoding),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrNoDataRows):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ERR_IMPORT_INVALID_FILE", err.Error(), requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("INTERNAL", "An unexpected error occurred", requestID))
}
