package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appidentity "github.com/retailcore/backend/internal/application/identity"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// TenantHandler handles tenant lifecycle administration. Suspension and
// activation are restricted to the tenant's owner role.
type TenantHandler struct {
	BaseHandler
	tenantService *appidentity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *appidentity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// GetCurrent handles GET /api/v1/tenant
func (h *TenantHandler) GetCurrent(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), tenantScope.TenantID())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

// Suspend handles POST /api/v1/tenant/suspend. After this request succeeds
// the admission guard rejects every further request for the tenant,
// including the owner's own.
func (h *TenantHandler) Suspend(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	if !h.requireOwner(c) {
		return
	}

	tenant, err := h.tenantService.SuspendTenant(c.Request.Context(), tenantScope.TenantID())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

// Activate handles POST /api/v1/tenant/activate. This route sits outside the
// admission guard: a suspended tenant could never reactivate itself through
// a guard that rejects suspended tenants. The tenant is taken from the
// verified claim instead of a derived scope.
func (h *TenantHandler) Activate(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}
	if !ident.HasTenant() {
		h.Error(c, http.StatusForbidden, shared.ErrTenantMissing.Code, shared.ErrTenantMissing.Message)
		return
	}
	if !h.requireOwner(c) {
		return
	}

	tenant, err := h.tenantService.ActivateTenant(c.Request.Context(), ident.TenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

// requireOwner admits only the owner role of the authenticated identity
func (h *TenantHandler) requireOwner(c *gin.Context) bool {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return false
	}
	if ident.Role != identity.RoleOwner {
		h.Forbidden(c, "Only the tenant owner may manage the tenant lifecycle")
		return false
	}
	return true
}
