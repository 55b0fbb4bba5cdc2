package trade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailcore/backend/internal/domain/finance"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/domain/trade"
	"github.com/retailcore/backend/internal/infrastructure/logger"
)

// CheckoutService coordinates sales as atomic units: the sale record, its
// stock decrements and its ledger entry commit or roll back together.
// Reads go straight to the scoped repository.
type CheckoutService struct {
	runner TxRunner
	sales  trade.SaleRepository
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(runner TxRunner, sales trade.SaleRepository) *CheckoutService {
	return &CheckoutService{runner: runner, sales: sales}
}

// SaleLineRequest is one requested line of a sale
type SaleLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest is the checkout payload
type CreateSaleRequest struct {
	Items []SaleLineRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSale executes a checkout. For each line the product is resolved
// within the bound tenant, stock is decremented with the conditional guard,
// and the sale plus its revenue ledger entry are written. Insufficient stock
// on any line aborts the whole unit; no partial sale survives.
func (s *CheckoutService) CreateSale(ctx context.Context, tenantScope shared.TenantScope, req CreateSaleRequest) (*trade.Sale, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale requires at least one item")
	}

	var sale *trade.Sale
	err := s.runner.RunAtomic(ctx, tenantScope, func(repos TxRepos) error {
		draft, err := trade.NewSale(tenantScope.TenantID(), newSaleNumber())
		if err != nil {
			return err
		}

		for _, line := range req.Items {
			product, err := repos.Products().FindByID(ctx, tenantScope, line.ProductID)
			if err != nil {
				return err
			}
			// The scoped read already guarantees ownership; a mismatch here
			// means the isolation layer itself is broken.
			if product.OwnerTenant() != tenantScope.TenantID() {
				return shared.ErrTenantMismatch
			}
			if !product.IsActive() {
				return shared.NewDomainError("PRODUCT_ARCHIVED", "Product is no longer sold")
			}

			if err := repos.Products().DecrementStock(ctx, tenantScope, product.ID, line.Quantity); err != nil {
				return err
			}
			if _, err := draft.AddItem(product.ID, product.Name, line.Quantity, product.SellingPrice); err != nil {
				return err
			}
		}

		if err := repos.Sales().Create(ctx, tenantScope, draft); err != nil {
			return err
		}

		entry, err := finance.NewSaleEntry(tenantScope.TenantID(), draft.ID, draft.TotalAmount,
			fmt.Sprintf("sale %s", draft.SaleNumber))
		if err != nil {
			return err
		}
		if err := repos.Ledger().Create(ctx, tenantScope, entry); err != nil {
			return err
		}

		sale = draft
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("sale completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("total_amount", sale.TotalAmount.String()),
	)
	return sale, nil
}

// CancelSale cancels a completed sale as one atomic unit: the sale flips to
// its terminal state, every line's stock is restored when restoreStock is
// set, and a compensating VOID entry is appended to the ledger. A second
// cancellation is rejected.
func (s *CheckoutService) CancelSale(ctx context.Context, tenantScope shared.TenantScope, saleID uuid.UUID, reason string, restoreStock bool) (*trade.Sale, error) {
	var sale *trade.Sale
	err := s.runner.RunAtomic(ctx, tenantScope, func(repos TxRepos) error {
		loaded, err := repos.Sales().FindByID(ctx, tenantScope, saleID)
		if err != nil {
			return err
		}
		if loaded.OwnerTenant() != tenantScope.TenantID() {
			return shared.ErrTenantMismatch
		}

		if err := loaded.Cancel(reason); err != nil {
			return err
		}

		if restoreStock {
			for _, item := range loaded.Items {
				if err := repos.Products().IncrementStock(ctx, tenantScope, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		if err := repos.Sales().Save(ctx, tenantScope, loaded); err != nil {
			return err
		}

		entry, err := finance.NewVoidEntry(tenantScope.TenantID(), loaded.ID, loaded.TotalAmount,
			fmt.Sprintf("void sale %s: %s", loaded.SaleNumber, reason))
		if err != nil {
			return err
		}
		if err := repos.Ledger().Create(ctx, tenantScope, entry); err != nil {
			return err
		}

		sale = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("sale cancelled",
		zap.String("sale_id", sale.ID.String()),
		zap.String("sale_number", sale.SaleNumber),
		zap.String("reason", reason),
		zap.Bool("stock_restored", restoreStock),
	)
	return sale, nil
}

// GetSale loads one sale with its items within the bound tenant
func (s *CheckoutService) GetSale(ctx context.Context, tenantScope shared.TenantScope, saleID uuid.UUID) (*trade.Sale, error) {
	return s.sales.FindByID(ctx, tenantScope, saleID)
}

// ListSales lists sales within the bound tenant
func (s *CheckoutService) ListSales(ctx context.Context, tenantScope shared.TenantScope, filter shared.Filter) (shared.Paginated[trade.Sale], error) {
	sales, err := s.sales.FindAll(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[trade.Sale]{}, err
	}
	total, err := s.sales.Count(ctx, tenantScope, filter)
	if err != nil {
		return shared.Paginated[trade.Sale]{}, err
	}
	return shared.NewPaginated(sales, total, filter.Page, filter.PageSize), nil
}

// newSaleNumber generates a time-prefixed sale number unique enough for
// human reference; the sale ID remains the real key.
func newSaleNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("S-%s-%s", time.Now().Format("20060102"), suffix)
}
