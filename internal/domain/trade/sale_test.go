package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func TestNewSale(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates completed sale", func(t *testing.T) {
		sale, err := NewSale(tenantID, "S-20260901-0001")
		require.NoError(t, err)
		assert.Equal(t, SaleStatusCompleted, sale.Status)
		assert.Equal(t, tenantID, sale.OwnerTenant())
		assert.True(t, sale.TotalAmount.IsZero())
		assert.Empty(t, sale.Items)
	})

	t.Run("rejects empty sale number", func(t *testing.T) {
		_, err := NewSale(tenantID, "")
		assert.Error(t, err)
	})
}

func TestSaleAddItem(t *testing.T) {
	tenantID := uuid.New()

	t.Run("accumulates line totals", func(t *testing.T) {
		sale, err := NewSale(tenantID, "S-0001")
		require.NoError(t, err)

		_, err = sale.AddItem(uuid.New(), "Espresso Beans", 3, decimal.NewFromFloat(12.50))
		require.NoError(t, err)
		_, err = sale.AddItem(uuid.New(), "Filter Paper", 2, decimal.NewFromFloat(4.25))
		require.NoError(t, err)

		assert.Len(t, sale.Items, 2)
		assert.True(t, sale.TotalAmount.Equal(decimal.NewFromFloat(46.00)),
			"expected 46.00, got %s", sale.TotalAmount)
	})

	t.Run("links item to sale", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0002")
		item, err := sale.AddItem(uuid.New(), "Mug", 1, decimal.NewFromInt(8))
		require.NoError(t, err)
		assert.Equal(t, sale.ID, item.SaleID)
		assert.True(t, item.LineTotal.Equal(decimal.NewFromInt(8)))
	})

	t.Run("rejects nil product", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0003")
		_, err := sale.AddItem(uuid.Nil, "Ghost", 1, decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0004")
		_, err := sale.AddItem(uuid.New(), "Mug", 0, decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = sale.AddItem(uuid.New(), "Mug", -2, decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0005")
		_, err := sale.AddItem(uuid.New(), "Mug", 1, decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}

func TestSaleCancel(t *testing.T) {
	tenantID := uuid.New()

	t.Run("transitions to cancelled", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0006")
		versionBefore := sale.GetVersion()

		err := sale.Cancel("customer returned goods")
		require.NoError(t, err)
		assert.True(t, sale.IsCancelled())
		assert.NotNil(t, sale.CancelledAt)
		assert.Equal(t, "customer returned goods", sale.CancelReason)
		assert.Equal(t, versionBefore+1, sale.GetVersion())
	})

	t.Run("rejects second cancellation", func(t *testing.T) {
		sale, _ := NewSale(tenantID, "S-0007")
		require.NoError(t, sale.Cancel("first"))

		err := sale.Cancel("second")
		assert.ErrorIs(t, err, shared.ErrAlreadyCancelled)
		assert.Equal(t, "first", sale.CancelReason)
	})
}
