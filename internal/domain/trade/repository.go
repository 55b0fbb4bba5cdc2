package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/retailcore/backend/internal/domain/shared"
)

// SaleRepository stores tenant-scoped sales together with their line items
type SaleRepository interface {
	// FindByID loads a sale with its items. Returns ErrNotFound when the id
	// does not exist in the bound tenant, even if it exists elsewhere.
	FindByID(ctx context.Context, scope shared.TenantScope, id uuid.UUID) (*Sale, error)
	FindBySaleNumber(ctx context.Context, scope shared.TenantScope, saleNumber string) (*Sale, error)
	FindAll(ctx context.Context, scope shared.TenantScope, filter shared.Filter) ([]Sale, error)
	Count(ctx context.Context, scope shared.TenantScope, filter shared.Filter) (int64, error)
	Create(ctx context.Context, scope shared.TenantScope, sale *Sale) error
	Save(ctx context.Context, scope shared.TenantScope, sale *Sale) error
}
