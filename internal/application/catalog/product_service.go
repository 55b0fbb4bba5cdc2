package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

// ProductService manages the tenant-scoped product catalog
type ProductService struct {
	products catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// CreateProductRequest is the payload for creating a product
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"required"`
	StockQuantity int64           `json:"stock_quantity" binding:"gte=0"`
}

// UpdateProductRequest is the payload for updating a product
type UpdateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	SellingPrice decimal.Decimal `json:"selling_price" binding:"required"`
}

// CreateProduct creates a product within the bound tenant. The SKU must be
// unique inside the tenant; other tenants may reuse it freely.
func (s *ProductService) CreateProduct(ctx context.Context, tenantScope shared.TenantScope, req CreateProductRequest) (*catalog.Product, error) {
	existing, err := s.products.FindBySKU(ctx, tenantScope, req.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("SKU_TAKEN", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantScope.TenantID(), req.SKU, req.Name, req.SellingPrice, req.StockQuantity)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, tenantScope, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	return product, nil
}

// GetProduct loads one product within the bound tenant
func (s *ProductService) GetProduct(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByID(ctx, tenantScope, id)
}

// ListProducts lists products within the bound tenant
func (s *ProductService) ListProducts(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	products, err := s.products.FindAll(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	total, err := s.products.Count(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[catalog.Product]{}, err
	}
	return shared.NewPaginated(products, total, filter.Page, filter.PageSize), nil
}

// UpdateProduct changes a product's name and price within the bound tenant
func (s *ProductService) UpdateProduct(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, tenantScope, id)
	if err != nil {
		return nil, err
	}
	if err := product.Update(req.Name, req.SellingPrice); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, tenantScope, product); err != nil {
		return nil, err
	}
	return product, nil
}

// ArchiveProduct retires a product from sale within the bound tenant
func (s *ProductService) ArchiveProduct(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, tenantScope, id)
	if err != nil {
		return nil, err
	}
	if err := product.Archive(); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, tenantScope, product); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product archived", zap.String("product_id", product.ID.String()))
	return product, nil
}

// DeleteProduct removes a product within the bound tenant
func (s *ProductService) DeleteProduct(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) error {
	return s.products.Delete(ctx, tenantScope, id)
}
