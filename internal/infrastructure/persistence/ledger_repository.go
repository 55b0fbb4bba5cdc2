package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/persistence/scope"
)

var ledgerSortFields = []string{"entry_type", "amount", "occurred_at"}

// GormLedgerRepository implements finance.LedgerRepository over the scoped
// collection. The ledger is append-only.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx rebinds the repository onto a transaction handle
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: tx}
}

func (r *GormLedgerRepository) entries(tenantScope shared.TenantScope) *scope.Collection[finance.LedgerEntry, *finance.LedgerEntry] {
	return scope.NewCollection[finance.LedgerEntry, *finance.LedgerEntry](r.db, tenantScope, ledgerSortFields...)
}

// FindByID finds an entry by ID within the bound tenant
func (r *GormLedgerRepository) FindByID(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*finance.LedgerEntry, error) {
	return r.entries(tenantScope).Get(ctx, id)
}

// FindBySaleID lists all entries recorded against a sale within the bound
// tenant, oldest first
func (r *GormLedgerRepository) FindBySaleID(ctx context.Context, tenantScope shared.TenantScope, saleID uuid.UUID) ([]finance.LedgerEntry, error) {
	return r.entries(tenantScope).List(ctx, scope.NewQuery().Eq("sale_id", saleID).OrderBy("occurred_at", "asc"))
}

// FindAll lists entries within the bound tenant
func (r *GormLedgerRepository) FindAll(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) ([]finance.LedgerEntry, error) {
	return r.entries(tenantScope).List(ctx, queryFromFilter(filter, "description"))
}

// Count counts entries within the bound tenant
func (r *GormLedgerRepository) Count(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (int64, error) {
	return r.entries(tenantScope).Count(ctx, queryFromFilter(filter, "description"))
}

// Create appends an entry stamped with the bound tenant
func (r *GormLedgerRepository) Create(ctx context.Context, tenantScope shared.TenantScope, entry *finance.LedgerEntry) error {
	return r.entries(tenantScope).Create(ctx, entry)
}

// SumAmount totals entry amounts within the bound tenant
func (r *GormLedgerRepository) SumAmount(ctx context.Context, tenantScope shared.TenantScope) (decimal.Decimal, error) {
	return r.entries(tenantScope).SumDecimal(ctx, "amount", nil)
}

var _ finance.LedgerRepository = (*GormLedgerRepository)(nil)
