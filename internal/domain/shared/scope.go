package shared

import (
	"errors"

	"github.com/google/uuid"
)

// ErrScopeRequired is returned when a tenant-owned operation is invoked on an
// unbound scope. This is a programmer error, not a runtime condition: the
// operation fails closed before any statement reaches the store.
var ErrScopeRequired = errors.New("tenant scope is required but not bound")

// TenantScope is a value object binding data access to exactly one tenant.
// Once constructed it cannot change; the zero value is unbound and every
// scoped operation rejects it. One scope is derived per request from the
// authenticated identity and passed explicitly down the call chain; scopes
// are never recovered from ambient or request-global state.
type TenantScope struct {
	tenantID uuid.UUID
	bound    bool
}

// ScopeFor creates a scope bound to the given tenant.
// A nil tenant ID is rejected: unscoped access is never the default.
func ScopeFor(tenantID uuid.UUID) (TenantScope, error) {
	if tenantID == uuid.Nil {
		return TenantScope{}, ErrScopeRequired
	}
	return TenantScope{tenantID: tenantID, bound: true}, nil
}

// MustScopeFor creates a scope bound to the given tenant and panics on a nil
// tenant ID. Use only where the tenant is structurally guaranteed, e.g. tests.
func MustScopeFor(tenantID uuid.UUID) TenantScope {
	s, err := ScopeFor(tenantID)
	if err != nil {
		panic(err)
	}
	return s
}

// TenantID returns the bound tenant. Zero UUID when unbound.
func (s TenantScope) TenantID() uuid.UUID {
	return s.tenantID
}

// Bound reports whether the scope is bound to a tenant.
func (s TenantScope) Bound() bool {
	return s.bound
}
