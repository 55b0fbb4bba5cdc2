package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
)

type stubTenantRepo struct {
	tenants map[uuid.UUID]*identity.Tenant
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.Tenant, error) {
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) FindByCode(_ context.Context, _ string) (*identity.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (r *stubTenantRepo) ExistsByCode(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (r *stubTenantRepo) Save(_ context.Context, _ *identity.Tenant) error {
	return nil
}

func guardTestEngine(repo identity.TenantRepository, ident *identity.Context) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	if ident != nil {
		engine.Use(func(c *gin.Context) {
			c.Set(IdentityKey, *ident)
			c.Next()
		})
	}
	engine.Use(RequireTenant(repo))
	engine.GET("/probe", func(c *gin.Context) {
		tenantScope, ok := GetScope(c)
		if !ok || !tenantScope.Bound() {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tenant_id": tenantScope.TenantID().String()})
	})
	return engine
}

func TestRequireTenant(t *testing.T) {
	activeTenant, err := identity.NewTenant("ACME", "Acme Retail")
	require.NoError(t, err)
	suspendedTenant, err := identity.NewTenant("FROZEN", "Frozen Goods")
	require.NoError(t, err)
	require.NoError(t, suspendedTenant.Suspend())

	repo := &stubTenantRepo{tenants: map[uuid.UUID]*identity.Tenant{
		activeTenant.ID:    activeTenant,
		suspendedTenant.ID: suspendedTenant,
	}}

	t.Run("active tenant is admitted with derived scope", func(t *testing.T) {
		ident := identity.NewContext(uuid.New(), activeTenant.ID, identity.RoleClerk)
		engine := guardTestEngine(repo, &ident)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), activeTenant.ID.String())
	})

	t.Run("missing tenant claim is forbidden", func(t *testing.T) {
		ident := identity.NewContext(uuid.New(), uuid.Nil, identity.RoleClerk)
		engine := guardTestEngine(repo, &ident)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "TENANT_MISSING")
	})

	t.Run("suspended tenant is forbidden", func(t *testing.T) {
		ident := identity.NewContext(uuid.New(), suspendedTenant.ID, identity.RoleOwner)
		engine := guardTestEngine(repo, &ident)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "TENANT_INACTIVE")
	})

	t.Run("unknown tenant is forbidden", func(t *testing.T) {
		ident := identity.NewContext(uuid.New(), uuid.New(), identity.RoleClerk)
		engine := guardTestEngine(repo, &ident)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "TENANT_INACTIVE")
	})

	t.Run("unauthenticated request is rejected before lookup", func(t *testing.T) {
		engine := guardTestEngine(repo, nil)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
