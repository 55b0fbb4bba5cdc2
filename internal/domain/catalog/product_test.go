package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailcore/backend/internal/domain/shared"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(tenantID, "sku-100", "House Blend", decimal.NewFromFloat(9.90), 25)
		require.NoError(t, err)
		assert.Equal(t, "SKU-100", p.SKU)
		assert.Equal(t, tenantID, p.OwnerTenant())
		assert.Equal(t, int64(25), p.StockQuantity)
		assert.True(t, p.IsActive())
	})

	t.Run("rejects empty SKU", func(t *testing.T) {
		_, err := NewProduct(tenantID, "  ", "House Blend", decimal.NewFromInt(1), 0)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-1", "", decimal.NewFromInt(1), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-1", "House Blend", decimal.NewFromInt(-1), 0)
		assert.Error(t, err)
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		_, err := NewProduct(tenantID, "SKU-1", "House Blend", decimal.NewFromInt(1), -5)
		assert.Error(t, err)
	})
}

func TestProductUpdate(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-1", "House Blend", decimal.NewFromInt(10), 5)
	require.NoError(t, err)
	versionBefore := p.GetVersion()

	require.NoError(t, p.Update("Dark Roast", decimal.NewFromFloat(11.50)))
	assert.Equal(t, "Dark Roast", p.Name)
	assert.True(t, p.SellingPrice.Equal(decimal.NewFromFloat(11.50)))
	assert.Equal(t, versionBefore+1, p.GetVersion())

	assert.Error(t, p.Update("", decimal.NewFromInt(1)))
	assert.Error(t, p.Update("Dark Roast", decimal.NewFromInt(-1)))
}

func TestProductArchive(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-1", "House Blend", decimal.NewFromInt(10), 5)
	require.NoError(t, err)

	require.NoError(t, p.Archive())
	assert.False(t, p.IsActive())

	err = p.Archive()
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}
