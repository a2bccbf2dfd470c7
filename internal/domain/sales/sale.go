// Package sales holds the sale aggregate and its status lifecycle.
package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a sale
type Status string

const (
	StatusOpen      Status = "open"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
	PaymentOther      PaymentMethod = "other"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentOther:
		return true
	}
	return false
}

// Item is a line of a sale. Name, price and cost are snapshots taken at sale time.
type Item struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// Sale is a point-of-sale transaction
type Sale struct {
	shared.BaseEntity
	Number        int64
	CashierID     uuid.UUID
	CustomerName  string
	Items         []Item
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	AmountPaid    decimal.Decimal
	Change        decimal.Decimal
	Status        Status
	Notes         string
	CompletedAt   *time.Time
	CancelReason  string
	CancelledAt   *time.Time
	CancelledBy   *uuid.UUID
}

// NewItem builds a sale line and computes its total
func NewItem(productID uuid.UUID, name string, quantity, unitPrice, unitCost, discount decimal.Decimal) (Item, error) {
	if !quantity.IsPositive() {
		return Item{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	gross := unitPrice.Mul(quantity)
	if discount.GreaterThan(gross) {
		return Item{}, shared.NewDomainError("INVALID_DISCOUNT", fmt.Sprintf("Discount for %s exceeds the item total", name))
	}
	return Item{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: name,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		UnitCost:    unitCost,
		Discount:    discount,
		Total:       gross.Sub(discount).Round(2),
	}, nil
}

// NewSale creates a completed sale from its items
func NewSale(cashierID uuid.UUID, items []Item, discount decimal.Decimal, method PaymentMethod, amountPaid decimal.Decimal) (*Sale, error) {
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "A sale needs at least one item")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	if discount.GreaterThan(subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount exceeds the sale subtotal")
	}
	total := subtotal.Sub(discount).Round(2)

	s := &Sale{
		BaseEntity:    shared.NewBaseEntity(),
		CashierID:     cashierID,
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		PaymentMethod: method,
		Status:        StatusOpen,
	}
	if err := s.settle(amountPaid, s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// settle records the payment and moves the sale to completed
func (s *Sale) settle(amountPaid decimal.Decimal, at time.Time) error {
	if amountPaid.IsZero() && s.PaymentMethod != PaymentCash {
		amountPaid = s.Total
	}
	if amountPaid.LessThan(s.Total) {
		return shared.NewDomainError("INSUFFICIENT_PAYMENT", "Amount paid is less than the sale total")
	}
	s.AmountPaid = amountPaid
	s.Change = amountPaid.Sub(s.Total)
	s.Status = StatusCompleted
	s.CompletedAt = &at
	return nil
}

// Cancel moves the sale to cancelled. Cancelling twice is rejected.
func (s *Sale) Cancel(by uuid.UUID, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancellation reason is required")
	}
	if s.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Sale is already cancelled")
	}

	now := shared.Now()
	s.Status = StatusCancelled
	s.CancelReason = reason
	s.CancelledAt = &now
	s.CancelledBy = &by
	s.UpdatedAt = now
	return nil
}

// Reopen returns a cancelled sale to open so it can be completed again
func (s *Sale) Reopen() error {
	if s.Status != StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Only cancelled sales can be reopened")
	}
	s.Status = StatusOpen
	s.CancelReason = ""
	s.CancelledAt = nil
	s.CancelledBy = nil
	s.CompletedAt = nil
	s.Touch()
	return nil
}

// Complete finalizes an open sale
func (s *Sale) Complete(amountPaid decimal.Decimal) error {
	if s.Status != StatusOpen {
		return shared.NewDomainError("INVALID_STATE", "Only open sales can be completed")
	}
	now := shared.Now()
	if err := s.settle(amountPaid, now); err != nil {
		return err
	}
	s.UpdatedAt = now
	return nil
}

// Cost returns the total cost of goods for the sale
func (s *Sale) Cost() decimal.Decimal {
	cost := decimal.Zero
	for _, it := range s.Items {
		cost = cost.Add(it.UnitCost.Mul(it.Quantity))
	}
	return cost
}

// Code renders the human readable sale number, e.g. V000123
func (s *Sale) Code() string {
	return FormatNumber(s.Number)
}

// FormatNumber renders a sale number as V plus six digits
func FormatNumber(n int64) string {
	return fmt.Sprintf("V%06d", n)
}
