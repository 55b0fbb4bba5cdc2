package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appcatalog "github.com/retailcore/backend/internal/application/catalog"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
)

func newProductService(t *testing.T) *appcatalog.ProductService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return appcatalog.NewProductService(persistence.NewGormProductRepository(db))
}

func TestProductService(t *testing.T) {
	ctx := context.Background()
	tenantScope := shared.MustScopeFor(uuid.New())

	createRequest := appcatalog.CreateProductRequest{
		SKU:           "widget-01",
		Name:          "Widget",
		SellingPrice:  decimal.NewFromInt(25),
		StockQuantity: 100,
	}

	t.Run("create uppercases SKU and stamps the tenant", func(t *testing.T) {
		svc := newProductService(t)
		product, err := svc.CreateProduct(ctx, tenantScope, createRequest)
		require.NoError(t, err)
		assert.Equal(t, "WIDGET-01", product.SKU)
		assert.Equal(t, tenantScope.TenantID(), product.TenantID)
	})

	t.Run("sku is unique within a tenant but free across tenants", func(t *testing.T) {
		svc := newProductService(t)
		_, err := svc.CreateProduct(ctx, tenantScope, createRequest)
		require.NoError(t, err)

		_, err = svc.CreateProduct(ctx, tenantScope, createRequest)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SKU_TAKEN", domainErr.Code)

		otherScope := shared.MustScopeFor(uuid.New())
		_, err = svc.CreateProduct(ctx, otherScope, createRequest)
		assert.NoError(t, err)
	})

	t.Run("update and archive", func(t *testing.T) {
		svc := newProductService(t)
		product, err := svc.CreateProduct(ctx, tenantScope, createRequest)
		require.NoError(t, err)

		updated, err := svc.UpdateProduct(ctx, tenantScope, product.ID, appcatalog.UpdateProductRequest{
			Name:         "Widget Pro",
			SellingPrice: decimal.NewFromInt(30),
		})
		require.NoError(t, err)
		assert.Equal(t, "Widget Pro", updated.Name)

		archived, err := svc.ArchiveProduct(ctx, tenantScope, product.ID)
		require.NoError(t, err)
		assert.False(t, archived.IsActive())
	})

	t.Run("lookups outside the bound tenant read as not found", func(t *testing.T) {
		svc := newProductService(t)
		product, err := svc.CreateProduct(ctx, tenantScope, createRequest)
		require.NoError(t, err)

		otherScope := shared.MustScopeFor(uuid.New())
		_, err = svc.GetProduct(ctx, otherScope, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list paginates within the tenant", func(t *testing.T) {
		svc := newProductService(t)
		for _, sku := range []string{"A-1", "A-2", "A-3"} {
			req := createRequest
			req.SKU = sku
			_, err := svc.CreateProduct(ctx, tenantScope, req)
			require.NoError(t, err)
		}

		filter := shared.DefaultFilter()
		filter.PageSize = 2
		page, err := svc.ListProducts(ctx, tenantScope, filter)
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(3), page.Total)
		assert.Equal(t, 2, page.TotalPages)
	})
}
