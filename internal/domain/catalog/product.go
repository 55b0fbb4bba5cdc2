package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a tenant-scoped catalog entry carrying its on-hand stock.
// StockQuantity only changes through the conditional decrement/increment
// paths inside an atomic unit; it is never written from a detached payload.
type Product struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"type:varchar(100);not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	StockQuantity int64           `gorm:"not null;default:0"`
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product within a tenant
func NewProduct(tenantID uuid.UUID, sku, name string, price decimal.Decimal, stock int64) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 100 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock quantity cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		SellingPrice:        price,
		StockQuantity:       stock,
		Status:              ProductStatusActive,
	}, nil
}

// Update changes the product's mutable attributes
func (p *Product) Update(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Selling price cannot be negative")
	}
	p.Name = name
	p.SellingPrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Archive retires the product from sale
func (p *Product) Archive() error {
	if p.Status == ProductStatusArchived {
		return shared.ErrInvalidState
	}
	p.Status = ProductStatusArchived
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsActive reports whether the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
