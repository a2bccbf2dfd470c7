package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of a new sale. Prices come from the catalog.
type SaleItemRequest struct {
	ProductID string          `json:"productId" binding:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" binding:"gt=0"`
	Discount  decimal.Decimal `json:"discount" binding:"gte=0"`
}

// CreateSaleRequest is the body of POST /sales
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,max=200,dive"`
	Discount      decimal.Decimal   `json:"discount" binding:"gte=0"`
	PaymentMethod string            `json:"paymentMethod" binding:"required,oneof=cash credit_card debit_card pix other"`
	AmountPaid    decimal.Decimal   `json:"amountPaid" binding:"gte=0"`
	CustomerName  string            `json:"customerName" binding:"max=200"`
	Notes         string            `json:"notes" binding:"max=500"`
}

// CancelSaleRequest is the body of POST /sales/:id/cancel
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// CompleteSaleRequest is the body of POST /sales/:id/complete
type CompleteSaleRequest struct {
	AmountPaid decimal.Decimal `json:"amountPaid" binding:"gte=0"`
}

// SaleListFilter holds the query parameters of GET /sales
type SaleListFilter struct {
	Page      int        `form:"page" binding:"omitempty,min=1"`
	PageSize  int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy   string     `form:"orderBy" binding:"omitempty,oneof=created_at number total status"`
	OrderDir  string     `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search    string     `form:"search" binding:"max=100"`
	Status    string     `form:"status" binding:"omitempty,oneof=open completed cancelled"`
	CashierID string     `form:"cashierId" binding:"omitempty,uuid"`
	From      *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To        *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// SaleItemResponse is a sale line in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	Number        int64              `json:"number"`
	Code          string             `json:"code"`
	CashierID     uuid.UUID          `json:"cashierId"`
	CustomerName  string             `json:"customerName"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"paymentMethod"`
	AmountPaid    decimal.Decimal    `json:"amountPaid"`
	Change        decimal.Decimal    `json:"change"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes"`
	CompletedAt   *time.Time         `json:"completedAt"`
	CancelReason  string             `json:"cancelReason,omitempty"`
	CancelledAt   *time.Time         `json:"cancelledAt,omitempty"`
	CancelledBy   *uuid.UUID         `json:"cancelledBy,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// SaleChange carries a sale before and after a status transition
type SaleChange struct {
	Before SaleResponse
	After  SaleResponse
}

// ToSaleResponse converts domain Sale to SaleResponse
func ToSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			Discount:    it.Discount,
			Total:       it.Total,
		})
	}
	return SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		Code:          s.Code(),
		CashierID:     s.CashierID,
		CustomerName:  s.CustomerName,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: string(s.PaymentMethod),
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		Status:        string(s.Status),
		Notes:         s.Notes,
		CompletedAt:   s.CompletedAt,
		CancelReason:  s.CancelReason,
		CancelledAt:   s.CancelledAt,
		CancelledBy:   s.CancelledBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
