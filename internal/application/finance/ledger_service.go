package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
)

// LedgerService exposes read access to the tenant's financial ledger.
// Entries are only ever written by the checkout and cancellation units.
type LedgerService struct {
	ledger finance.LedgerRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledger finance.LedgerRepository) *LedgerService {
	return &LedgerService{ledger: ledger}
}

// GetEntry loads one ledger entry within the bound tenant
func (s *LedgerService) GetEntry(ctx context.Context, tenantScope shared.TenantScope, id uuid.UUID) (*finance.LedgerEntry, error) {
	return s.ledger.FindByID(ctx, tenantScope, id)
}

// ListEntries lists ledger entries within the bound tenant
func (s *LedgerService) ListEntries(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (shared.Paginated[finance.LedgerEntry], error) {
	entries, err := s.ledger.FindAll(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[finance.LedgerEntry]{}, err
	}
	total, err := s.ledger.Count(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[finance.LedgerEntry]{}, err
	}
	return shared.NewPaginated(entries, total, filter.Page, filter.PageSize), nil
}

// EntriesForSale lists the entries recorded against one sale, oldest first.
// A cancelled sale shows its SALE entry and the compensating VOID entry.
func (s *LedgerService) EntriesForSale(ctx context.Context, tenantScope shared.TenantScope, saleID uuid.UUID) ([]finance.LedgerEntry, error) {
	return s.ledger.FindBySaleID(ctx, tenantScope, saleID)
}

// Balance totals all entry amounts for the bound tenant. Voided sales net to
// zero, so the balance reflects realized revenue.
func (s *LedgerService) Balance(ctx context.Context, tenantScope shared.TenantScope) (decimal.Decimal, error) {
	return s.ledger.SumAmount(ctx, tenantScope)
}
