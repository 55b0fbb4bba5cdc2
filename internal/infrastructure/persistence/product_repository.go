package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/scope"
)

var productSortFields = []string{"sku", "name", "selling_price", "stock_quantity", "status", "updated_at"}

// GormProductRepository implements catalog.ProductRepository over the scoped
// collection
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx rebinds the repository onto a transaction handle
func (r *GormProductRepository) WithTx(tx *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: tx}
}

func (r *GormProductRepository) products(tenantScope shared.TenantScope) *scope.Collection[catalog.Product, *catalog.Product] {
	return scope.NewCollection[catalog.Product, *catalog.Product](r.db, tenantScope, productSortFields...)
}

// FindByID finds a product by ID within the bound tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*catalog.Product, error) {
	return r.products(tenantScope).Get(ctx, id)
}

// FindBySKU finds a product by SKU within the bound tenant
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantScope shared.TenantScope, sku string) (*catalog.Product, error) {
	db, err := r.products(tenantScope).DB(ctx)
	if err != nil {
		return nil, err
	}
	var product catalog.Product
	if err := db.Where("sku = ?", strings.ToUpper(strings.TrimSpace(sku))).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll lists products within the bound tenant
func (r *GormProductRepository) FindAll(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) ([]catalog.Product, error) {
	return r.products(tenantScope).List(ctx, queryFromFilter(filter, "name"))
}

// Count counts products within the bound tenant
func (r *GormProductRepository) Count(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (int64, error) {
	return r.products(tenantScope).Count(ctx, queryFromFilter(filter, "name"))
}

// Create inserts a product stamped with the bound tenant
func (r *GormProductRepository) Create(ctx context.Context, tenantScope shared.TenantScope, product *catalog.Product) error {
	return r.products(tenantScope).Create(ctx, product)
}

// CreateBatch inserts products stamped with the bound tenant
func (r *GormProductRepository) CreateBatch(ctx context.Context, tenantScope shared.TenantScope, products []*catalog.Product) error {
	return r.products(tenantScope).CreateBatch(ctx, products)
}

// Save writes a product owned by the bound tenant
func (r *GormProductRepository) Save(ctx context.Context, tenantScope shared.TenantScope, product *catalog.Product) error {
	return r.products(tenantScope).Save(ctx, product)
}

// Delete removes a product within the bound tenant
func (r *GormProductRepository) Delete(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) error {
	return r.products(tenantScope).Delete(ctx, id)
}

// DecrementStock decrements on-hand stock with the availability check and
// the decrement in a single conditional UPDATE. Zero affected rows means the
// guard failed; a scoped re-read distinguishes a missing product from
// insufficient stock.
func (r *GormProductRepository) DecrementStock(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	col := r.products(tenantScope)
	db, err := col.DB(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ? AND stock_quantity >= ?", id, quantity).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	product, err := col.Get(ctx, id)
	if err != nil {
		return err
	}
	return &shared.InsufficientStockError{
		ProductID: product.ID.String(),
		Available: product.StockQuantity,
		Requested: quantity,
	}
}

// IncrementStock restores stock within the bound tenant
func (r *GormProductRepository) IncrementStock(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	db, err := r.products(tenantScope).DB(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).
		Updates(map[string]any{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"version":        gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
