package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// SaleStatus represents the lifecycle status of a sale
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// Sale is a tenant-scoped point-of-sale transaction. A sale is committed
// atomically with its stock decrements and ledger entry; it is completed the
// moment it exists and can only transition to cancelled.
type Sale struct {
	shared.TenantAggregateRoot
	SaleNumber   string          `gorm:"type:varchar(50);not null;index"`
	Status       SaleStatus      `gorm:"type:varchar(20);not null;default:'completed'"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Items        []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is a line item of a sale. It carries no tenant column: its
// effective tenant is always its parent sale's, and it is reachable only
// through the tenant-scoped sales collection (loaded with its parent), never
// queried independently.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
}

// TableName returns the table name for GORM
func (SaleItem) TableName() string {
	return "sale_items"
}

// NewSale creates an empty completed sale within a tenant
func NewSale(tenantID uuid.UUID, saleNumber string) (*Sale, error) {
	if saleNumber == "" {
		return nil, shared.NewDomainError("INVALID_SALE_NUMBER", "Sale number cannot be empty")
	}
	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleNumber:          saleNumber,
		Status:              SaleStatusCompleted,
		TotalAmount:         decimal.Zero,
	}, nil
}

// AddItem appends a line item and recomputes the total
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	item := SaleItem{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   lineTotal,
	}
	s.Items = append(s.Items, item)
	s.TotalAmount = s.TotalAmount.Add(lineTotal)
	return &s.Items[len(s.Items)-1], nil
}

// IsCancelled reports whether the sale is in its terminal cancelled state
func (s *Sale) IsCancelled() bool {
	return s.Status == SaleStatusCancelled
}

// Cancel transitions the sale to its terminal cancelled state.
// A second cancellation is rejected so compensation cannot run twice.
func (s *Sale) Cancel(reason string) error {
	if s.IsCancelled() {
		return shared.ErrAlreadyCancelled
	}
	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}
