package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	apptrade "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/trade"
)

// SaleHandler handles checkout and cancellation endpoints
type SaleHandler struct {
	BaseHandler
	checkoutService *apptrade.CheckoutService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(checkoutService *apptrade.CheckoutService) *SaleHandler {
	return &SaleHandler{checkoutService: checkoutService}
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID           string             `json:"id"`
	SaleNumber   string             `json:"sale_number"`
	Status       string             `json:"status"`
	TotalAmount  string             `json:"total_amount"`
	Items        []SaleItemResponse `json:"items,omitempty"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason string             `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

func toSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for i := range s.Items {
		item := &s.Items[i]
		items = append(items, SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			LineTotal:   item.LineTotal.String(),
		})
	}
	return SaleResponse{
		ID:           s.ID.String(),
		SaleNumber:   s.SaleNumber,
		Status:       string(s.Status),
		TotalAmount:  s.TotalAmount.String(),
		Items:        items,
		CancelledAt:  s.CancelledAt,
		CancelReason: s.CancelReason,
		CreatedAt:    s.CreatedAt,
	}
}

func toSaleResponses(sales []trade.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, toSaleResponse(&sales[i]))
	}
	return out
}

// CancelSaleRequest carries the cancellation reason. Stock is restored
// unless restore_stock is explicitly false.
type CancelSaleRequest struct {
	Reason       string `json:"reason" binding:"required"`
	RestoreStock *bool  `json:"restore_stock"`
}

// Create handles POST /api/v1/sales
func (h *SaleHandler) Create(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}

	var req apptrade.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "Invalid sale payload")
		return
	}

	sale, err := h.checkoutService.CreateSale(c.Request.Context(), tenantScope, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSaleResponse(sale))
}

// Get handles GET /api/v1/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	sale, err := h.checkoutService.GetSale(c.Request.Context(), tenantScope, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSaleResponse(sale))
}

// List handles GET /api/v1/sales
func (h *SaleHandler) List(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	page, err := h.checkoutService.ListSales(c.Request.Context(), tenantScope, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toSaleResponses(page.Items), page.Total, page.Page, page.PageSize)
}

// Cancel handles POST /api/v1/sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	tenantScope, ok := h.requireScope(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req CancelSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err, "Cancellation reason is required")
		return
	}

	restoreStock := req.RestoreStock == nil || *req.RestoreStock
	sale, err := h.checkoutService.CancelSale(c.Request.Context(), tenantScope, id, req.Reason, restoreStock)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSaleResponse(sale))
}
