package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// ProductRepository stores tenant-scoped products. Every method takes the
// tenant scope explicitly; there is no unscoped access to this collection.
type ProductRepository interface {
	FindByID(ctx context.Context, scope shared.TenantScope, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, scope shared.TenantScope, sku string) (*Product, error)
	FindAll(ctx context.Context, scope shared.TenantScope, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, scope shared.TenantScope, filter shared.Filter) (int64, error)
	Create(ctx context.Context, scope shared.TenantScope, product *Product) error
	CreateBatch(ctx context.Context, scope shared.TenantScope, products []*Product) error
	Save(ctx context.Context, scope shared.TenantScope, product *Product) error
	Delete(ctx context.Context, scope shared.TenantScope, id uuid.UUID) error

	// DecrementStock atomically decrements on-hand stock if and only if the
	// current quantity covers the request. The check and the decrement are one
	// statement so concurrent sales of the same product cannot oversell.
	// Returns InsufficientStockError when the guard fails, ErrNotFound when
	// the product does not exist in the bound tenant.
	DecrementStock(ctx context.Context, scope shared.TenantScope, id uuid.UUID, quantity int64) error

	// IncrementStock restores stock, used by the cancellation flow.
	IncrementStock(ctx context.Context, scope shared.TenantScope, id uuid.UUID, quantity int64) error
}
