package shared

import "fmt"

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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthenticated     = NewDomainError("UNAUTHENTICATED", "Authentication required")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrTenantMissing       = NewDomainError("TENANT_MISSING", "No tenant is associated with this request")
	ErrTenantInactive      = NewDomainError("TENANT_INACTIVE", "Tenant is inactive or suspended")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrAlreadyCancelled    = NewDomainError("ALREADY_CANCELLED", "Sale has already been cancelled")
	ErrTenantMismatch      = NewDomainError("TENANT_MISMATCH", "Row belongs to a different tenant")
)

// InsufficientStockError is returned when a stock decrement cannot be satisfied.
// It aborts the surrounding atomic unit.
type InsufficientStockError struct {
	ProductID string
	Available int64
	Requested int64
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductID, e.Available, e.Requested)
}

// Code returns the domain error code for HTTP mapping
func (e *InsufficientStockError) Code() string {
	return "INSUFFICIENT_STOCK"
}
