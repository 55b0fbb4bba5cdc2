package trade

import (
	"context"

	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// TxRepos provides repository access inside one atomic unit. Every
// repository method still takes the tenant scope explicitly, so the tenant
// clause is re-asserted on each statement rather than assumed to hold for
// the transaction as a whole.
type TxRepos interface {
	Sales() trade.SaleRepository
	Products() catalog.ProductRepository
	Ledger() finance.LedgerRepository
}

// TxRunner executes a function as one atomic unit. Any error from fn rolls
// back every statement of the unit; partial effects never persist.
type TxRunner interface {
	// RunAtomic opens a transaction and invokes fn with repositories bound
	// to it. The scope must be bound; an unbound scope fails closed before
	// the transaction is opened.
	RunAtomic(ctx context.Context, tenantScope shared.TenantScope, fn func(repos TxRepos) error) error
}
