package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/interfaces/http/dto"
)

// ScopeKey is the gin context key holding the per-request tenant scope
const ScopeKey = "tenant_scope"

// RequireTenant is the admission guard for tenant-bound routes. It runs
// after Authenticate and admits a request only when the identity carries a
// tenant claim and that tenant is currently active. The guard derives the
// request's tenant scope; handlers behind it never construct scopes
// themselves.
func RequireTenant(tenants identity.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := GetIdentity(c)
		if !ok {
			abortUnauthenticated(c, "Authentication required")
			return
		}
		if !ident.HasTenant() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.ErrTenantMissing.Code, shared.ErrTenantMissing.Message))
			return
		}

		tenant, err := tenants.FindByID(c.Request.Context(), ident.TenantID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			logger.L(c.Request.Context()).Error("tenant admission lookup failed",
				zap.String("tenant_id", ident.TenantID.String()), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred"))
			return
		}
		// A tenant that no longer exists is treated like a suspended one
		if err != nil || !tenant.IsActive() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.ErrTenantInactive.Code, shared.ErrTenantInactive.Message))
			return
		}

		tenantScope, err := ident.Scope()
		if err != nil {
			abortUnauthenticated(c, "Authentication required")
			return
		}
		c.Set(ScopeKey, tenantScope)

		c.Next()
	}
}

// GetScope retrieves the tenant scope derived by the admission guard.
// The second return is false on routes that never passed RequireTenant.
func GetScope(c *gin.Context) (shared.TenantScope, bool) {
	v, exists := c.Get(ScopeKey)
	if !exists {
		return shared.TenantScope{}, false
	}
	tenantScope, ok := v.(shared.TenantScope)
	return tenantScope, ok
}
