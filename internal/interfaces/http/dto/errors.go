package dto

import "net/http"

// Error codes surfaced by the API. Domain error codes pass through
// unchanged; this table only decides the HTTP status they map to.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthenticated: http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,

	// Admission guard rejections. TENANT_MISMATCH is deliberately absent:
	// it is an integrity violation surfaced as a generic internal error.
	"TENANT_MISSING":  http.StatusForbidden,
	"TENANT_INACTIVE": http.StatusForbidden,

	ErrCodeNotFound:        http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"TENANT_CODE_TAKEN":    http.StatusConflict,
	"SKU_TAKEN":            http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Business rule violations
	"INVALID_STATE":      http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK": http.StatusUnprocessableEntity,
	"ALREADY_CANCELLED":  http.StatusUnprocessableEntity,
	"PRODUCT_ARCHIVED":   http.StatusUnprocessableEntity,
	"EMPTY_SALE":         http.StatusUnprocessableEntity,

	// Domain validation failures
	"INVALID_INPUT":       http.StatusBadRequest,
	"INVALID_SKU":         http.StatusBadRequest,
	"INVALID_NAME":        http.StatusBadRequest,
	"INVALID_PRICE":       http.StatusBadRequest,
	"INVALID_STOCK":       http.StatusBadRequest,
	"INVALID_QUANTITY":    http.StatusBadRequest,
	"INVALID_TENANT_CODE": http.StatusBadRequest,
	"INVALID_TENANT_NAME": http.StatusBadRequest,
	"INVALID_USERNAME":    http.StatusBadRequest,
	"INVALID_PASSWORD":    http.StatusBadRequest,
	"INVALID_ROLE":        http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
