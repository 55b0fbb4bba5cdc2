package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/retailcore/backend/internal/domain/shared"
)

// EntryType classifies a ledger entry
type EntryType string

const (
	// EntryTypeSale records revenue from a completed sale
	EntryTypeSale EntryType = "SALE"
	// EntryTypeVoid compensates a cancelled sale with the negated amount
	EntryTypeVoid EntryType = "VOID"
)

// LedgerEntry is an append-only tenant-scoped financial record. Entries are
// never updated or deleted; a cancellation appends a compensating VOID entry
// instead of touching the original SALE entry.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	EntryType   EntryType       `gorm:"type:varchar(20);not null;index"`
	SaleID      *uuid.UUID      `gorm:"type:uuid;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Description string          `gorm:"type:varchar(500)"`
	OccurredAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// NewSaleEntry records the revenue of a completed sale
func NewSaleEntry(tenantID, saleID uuid.UUID, amount decimal.Decimal, description string) (*LedgerEntry, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID is required")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Sale amount cannot be negative")
	}
	return newEntry(tenantID, EntryTypeSale, &saleID, amount, description), nil
}

// NewVoidEntry compensates a cancelled sale. The stored amount is the
// negation of the original sale amount so that summing a sale's entries
// yields zero after cancellation.
func NewVoidEntry(tenantID, saleID uuid.UUID, saleAmount decimal.Decimal, description string) (*LedgerEntry, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID is required")
	}
	return newEntry(tenantID, EntryTypeVoid, &saleID, saleAmount.Neg(), description), nil
}

func newEntry(tenantID uuid.UUID, entryType EntryType, saleID *uuid.UUID, amount decimal.Decimal, description string) *LedgerEntry {
	return &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EntryType:           entryType,
		SaleID:              saleID,
		Amount:              amount,
		Description:         description,
		OccurredAt:          time.Now(),
	}
}
