package identity

import (
	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// Role is the coarse authorization role carried by an authenticated identity
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleClerk Role = "clerk"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleClerk:
		return true
	}
	return false
}

// Context is the per-request identity derived from a verified credential.
// It is immutable, lives for exactly one request, and is never shared across
// requests. TenantID is uuid.Nil when the credential carries no tenant claim,
// which is valid only for pre-tenant flows such as login.
type Context struct {
	SubjectID uuid.UUID
	TenantID  uuid.UUID
	Role      Role
}

// NewContext creates an identity context from verified claim values
func NewContext(subjectID, tenantID uuid.UUID, role Role) Context {
	return Context{
		SubjectID: subjectID,
		TenantID:  tenantID,
		Role:      role,
	}
}

// HasTenant reports whether a tenant claim is present
func (c Context) HasTenant() bool {
	return c.TenantID != uuid.Nil
}

// Scope derives the tenant scope for this identity. Fails when no tenant
// claim is present; handlers behind the tenant guard never see that case.
func (c Context) Scope() (shared.TenantScope, error) {
	return shared.ScopeFor(c.TenantID)
}
