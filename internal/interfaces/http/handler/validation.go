package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/gstledger/backend/internal/domain/tenant"
)

// RegisterValidations installs the custom binding validators on gin's
// validator engine. Call once before routes are served.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	// tenantkey accepts anything ParseKey would, so case and surrounding
	// whitespace do not fail binding before canonicalization
	return v.RegisterValidation("tenantkey", func(fl validator.FieldLevel) bool {
		_, err := tenant.ParseKey(fl.Field().String())
		return err == nil
	})
}
