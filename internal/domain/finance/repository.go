package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// LedgerRepository stores tenant-scoped ledger entries. The ledger is
// append-only; there are no update or delete operations.
type LedgerRepository interface {
	FindByID(ctx context.Context, scope shared.TenantScope, id uuid.UUID) (*LedgerEntry, error)
	FindBySaleID(ctx context.Context, scope shared.TenantScope, saleID uuid.UUID) ([]LedgerEntry, error)
	FindAll(ctx context.Context, scope shared.TenantScope, filter shared.Filter) ([]LedgerEntry, error)
	Count(ctx context.Context, scope shared.TenantScope, filter shared.Filter) (int64, error)
	Create(ctx context.Context, scope shared.TenantScope, entry *LedgerEntry) error

	// SumAmount totals entry amounts within the bound tenant. With both SALE
	// and VOID entries included, a cancelled sale contributes zero.
	SumAmount(ctx context.Context, scope shared.TenantScope) (decimal.Decimal, error)
}
