package persistence

import (
	"context"

	"gorm.io/gorm"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/catalog"
	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
)

// GormTxRunner implements the atomic unit coordinator over GORM
// transactions. Repositories handed to the unit are rebuilt over the
// transaction handle; their methods keep taking the tenant scope explicitly,
// so every statement inside the unit re-asserts the tenant clause.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a new GormTxRunner
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// RunAtomic runs fn within a database transaction. An error rolls the whole
// unit back. An unbound scope is rejected before the transaction opens.
func (r *GormTxRunner) RunAtomic(ctx context.Context, tenantScope shared.TenantScope, fn func(repos apptrade.TxRepos) error) error {
	if !tenantScope.Bound() {
		return shared.ErrScopeRequired
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTxRepos{tx: tx})
	})
}

type gormTxRepos struct {
	tx *gorm.DB
}

// Sales returns the sale repository bound to the current transaction
func (r *gormTxRepos) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

// Products returns the product repository bound to the current transaction
func (r *gormTxRepos) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// Ledger returns the ledger repository bound to the current transaction
func (r *gormTxRepos) Ledger() finance.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

var _ apptrade.TxRunner = (*GormTxRunner)(nil)
var _ apptrade.TxRepos = (*gormTxRepos)(nil)
