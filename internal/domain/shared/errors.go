package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Identity and isolation errors. These abort the enclosing import or
// aggregation call entirely; they are never downgraded to row-level errors.
var (
	// ErrIdentityUnresolved means no seller tax registration could be derived
	// for an import. The caller must import a format that reveals the
	// registration directly before retrying.
	ErrIdentityUnresolved = NewDomainError("IDENTITY_UNRESOLVED", "Seller identity could not be resolved for this import")

	// ErrMixedTenantSource means a single file resolved to more than one
	// seller registration. The whole file is rejected; it is never split.
	ErrMixedTenantSource = NewDomainError("MIXED_TENANT_SOURCE", "File contains records for more than one seller registration")

	// ErrMissingTenantKey means a read path was invoked without a tenant key.
	// This is an integration error and is fatal to the operation.
	ErrMissingTenantKey = NewDomainError("MISSING_TENANT_KEY", "Query attempted without a tenant key")

	// ErrTenantMismatch means imported rows link to records stored under a
	// different seller registration. The import keeps the resolved key and
	// reports the disagreement; it never reassigns records.
	ErrTenantMismatch = NewDomainError("TENANT_MISMATCH", "Rows link to records under a different seller registration")
)
