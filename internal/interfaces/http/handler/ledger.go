package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appfinance "github.com/retailcore/backend/internal/application/finance"
	"github.com/retailcore/backend/internal/domain/finance"
)

// LedgerHandler handles the read-only ledger endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *appfinance.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *appfinance.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID          string    `json:"id"`
	EntryType   string    `json:"entry_type"`
	SaleID      string    `json:"sale_id,omitempty"`
	Amount      string    `json:"amount"`
	Description string    `json:"description,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func toLedgerEntryResponse(e *finance.LedgerEntry) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:          e.ID.String(),
		EntryType:   string(e.EntryType),
		Amount:      e.Amount.String(),
		Description: e.Description,
		OccurredAt:  e.OccurredAt,
	}
	if e.SaleID != nil {
		resp.SaleID = e.SaleID.String()
	}
	return resp
}

func toLedgerEntryResponses(entries []finance.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toLedgerEntryResponse(&entries[i]))
	}
	return out
}

// BalanceResponse carries the tenant's ledger balance
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// List handles GET /api/v1/ledger
func (h *LedgerHandler) List(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	page, err := h.ledgerService.ListEntries(c.Request.Context(), tenantScope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toLedgerEntryResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// ListForSale handles GET /api/v1/sales/:id/ledger
func (h *LedgerHandler) ListForSale(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	saleID, ok := h.parseID(c)
	if !ok {
		return
	}

	entries, err := h.ledgerService.EntriesForSale(c.Request.Context(), tenantScope, saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toLedgerEntryResponses(entries))
}

// Balance handles GET /api/v1/ledger/balance
func (h *LedgerHandler) Balance(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), tenantScope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceResponse{Balance: balance.String()})
}
