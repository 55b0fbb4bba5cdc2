package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/retailcore/backend/internal/infrastructure/persistence/scope"
)

var saleSortFields = []string{"sale_number", "status", "total_amount", "cancelled_at", "updated_at"}

// GormSaleRepository implements trade.SaleRepository over the scoped
// collection. Line items travel with their parent sale; they are loaded and
// written only through this repository.
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx rebinds the repository onto a transaction handle
func (r *GormSaleRepository) WithTx(tx *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: tx}
}

func (r *GormSaleRepository) sales(tenantScope shared.TenantScope) *scope.Collection[trade.Sale, *trade.Sale] {
	return scope.NewCollection[trade.Sale, *trade.Sale](r.db, tenantScope, saleSortFields...)
}

// FindByID loads a sale with its items by primary key and verifies its
// owner. Collection.Get cannot serve this read because the items
// association must be preloaded with the parent, so its fetch-then-verify
// sequence is repeated here: a sale owned by another tenant reads as not
// found.
func (r *GormSaleRepository) FindByID(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*trade.Sale, error) {
	if !tenantScope.Bound() {
		return nil, shared.ErrScopeRequired
	}
	var sale trade.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if sale.OwnerTenant() != tenantScope.TenantID() {
		return nil, shared.ErrNotFound
	}
	return &sale, nil
}

// FindBySaleNumber finds a sale with its items within the bound tenant
func (r *GormSaleRepository) FindBySaleNumber(ctx context.Context, tenantScope shared.TenantScope, saleNumber string) (*trade.Sale, error) {
	db, err := r.sales(tenantScope).DB(ctx)
	if err != nil {
		return nil, err
	}
	var sale trade.Sale
	if err := db.Preload("Items").Where("sale_number = ?", saleNumber).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll lists sales within the bound tenant. Items are not preloaded for
// list views.
func (r *GormSaleRepository) FindAll(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) ([]trade.Sale, error) {
	return r.sales(tenantScope).List(ctx, queryFromFilter(filter, "sale_number"))
}

// Count counts sales within the bound tenant
func (r *GormSaleRepository) Count(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (int64, error) {
	return r.sales(tenantScope).Count(ctx, queryFromFilter(filter, "sale_number"))
}

// Create inserts a sale and its items, stamped with the bound tenant
func (r *GormSaleRepository) Create(ctx context.Context, tenantScope shared.TenantScope, sale *trade.Sale) error {
	return r.sales(tenantScope).Create(ctx, sale)
}

// Save writes a sale owned by the bound tenant
func (r *GormSaleRepository) Save(ctx context.Context, tenantScope shared.TenantScope, sale *trade.Sale) error {
	return r.sales(tenantScope).Save(ctx, sale)
}

var _ trade.SaleRepository = (*GormSaleRepository)(nil)
