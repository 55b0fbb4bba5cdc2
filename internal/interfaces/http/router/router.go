package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
)

// Dependencies carries everything the router needs to wire routes
type Dependencies struct {
	JWTService *auth.JWTService
	Blacklist  auth.TokenBlacklist
	Tenants    identity.TenantRepository

	AuthHandler    *handler.AuthHandler
	TenantHandler  *handler.TenantHandler
	ProductHandler *handler.ProductHandler
	SaleHandler    *handler.SaleHandler
	LedgerHandler  *handler.LedgerHandler

	CORS middleware.CORSConfig
}

// Setup wires middleware and routes onto the engine. The route tree encodes
// the admission ladder: public routes, then authenticated routes, then
// tenant-guarded routes.
func Setup(engine *gin.Engine, deps Dependencies) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(deps.CORS))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	// Public: no credential required
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", deps.AuthHandler.Register)
		authGroup.POST("/login", deps.AuthHandler.Login)
		authGroup.POST("/refresh", deps.AuthHandler.Refresh)
	}

	// Authenticated: valid access token required, tenant not yet admitted
	authed := api.Group("")
	authed.Use(middleware.Authenticate(deps.JWTService, deps.Blacklist))
	{
		authed.POST("/auth/logout", deps.AuthHandler.Logout)
		authed.POST("/tenant/activate", deps.TenantHandler.Activate)
	}

	// Tenant-guarded: active tenant required, scope derived per request
	guarded := api.Group("")
	guarded.Use(
		middleware.Authenticate(deps.JWTService, deps.Blacklist),
		middleware.RequireTenant(deps.Tenants),
	)
	{
		guarded.GET("/tenant", deps.TenantHandler.GetCurrent)
		guarded.POST("/tenant/suspend", deps.TenantHandler.Suspend)

		products := guarded.Group("/products")
		{
			products.POST("", deps.ProductHandler.Create)
			products.GET("", deps.ProductHandler.List)
			products.GET("/:id", deps.ProductHandler.Get)
			products.PUT("/:id", deps.ProductHandler.Update)
			products.POST("/:id/archive", deps.ProductHandler.Archive)
			products.DELETE("/:id", deps.ProductHandler.Delete)
		}

		sales := guarded.Group("/sales")
		{
			sales.POST("", deps.SaleHandler.Create)
			sales.GET("", deps.SaleHandler.List)
			sales.GET("/:id", deps.SaleHandler.Get)
			sales.POST("/:id/cancel", deps.SaleHandler.Cancel)
			sales.GET("/:id/ledger", deps.LedgerHandler.ListForSale)
		}

		ledger := guarded.Group("/ledger")
		{
			ledger.GET("", deps.LedgerHandler.List)
			ledger.GET("/balance", deps.LedgerHandler.Balance)
		}
	}
}
