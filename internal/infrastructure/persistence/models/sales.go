package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate.
type SaleModel struct {
	BaseModel
	Number        int64               `gorm:"not null;uniqueIndex"`
	CashierID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	CustomerName  string              `gorm:"type:varchar(200)"`
	Subtotal      decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	Discount      decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	Total         decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	PaymentMethod sales.PaymentMethod `gorm:"type:varchar(20);not null"`
	AmountPaid    decimal.Decimal     `gorm:"type:numeric(18,4);not null"`
	Change        decimal.Decimal     `gorm:"column:change_amount;type:numeric(18,4);not null"`
	Status        sales.Status        `gorm:"type:varchar(20);not null;index"`
	Notes         string              `gorm:"type:text"`
	CompletedAt   *time.Time          `gorm:"index"`
	CancelReason  string              `gorm:"type:varchar(500)"`
	CancelledAt   *time.Time
	CancelledBy   *uuid.UUID      `gorm:"type:uuid"`
	Items         []SaleItemModel `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleItemModel is the persistence model for a sale line.
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(18,4);not null"`
	Position    int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain Sale. Items must be preloaded.
func (m *SaleModel) ToDomain() *sales.Sale {
	items := make([]sales.Item, len(m.Items))
	for i, it := range m.Items {
		items[i] = sales.Item{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			Discount:    it.Discount,
			Total:       it.Total,
		}
	}
	return &sales.Sale{
		BaseEntity:    m.BaseModel.ToDomain(),
		Number:        m.Number,
		CashierID:     m.CashierID,
		CustomerName:  m.CustomerName,
		Items:         items,
		Subtotal:      m.Subtotal,
		Discount:      m.Discount,
		Total:         m.Total,
		PaymentMethod: m.PaymentMethod,
		AmountPaid:    m.AmountPaid,
		Change:        m.Change,
		Status:        m.Status,
		Notes:         m.Notes,
		CompletedAt:   m.CompletedAt,
		CancelReason:  m.CancelReason,
		CancelledAt:   m.CancelledAt,
		CancelledBy:   m.CancelledBy,
	}
}

// SaleModelFromDomain creates a persistence model, items included, from a domain Sale.
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{
		Number:        s.Number,
		CashierID:     s.CashierID,
		CustomerName:  s.CustomerName,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		Status:        s.Status,
		Notes:         s.Notes,
		CompletedAt:   s.CompletedAt,
		CancelReason:  s.CancelReason,
		CancelledAt:   s.CancelledAt,
		CancelledBy:   s.CancelledBy,
		Items:         make([]SaleItemModel, len(s.Items)),
	}
	m.FromDomainBaseEntity(s.BaseEntity)
	for i, it := range s.Items {
		m.Items[i] = SaleItemModel{
			ID:          it.ID,
			SaleID:      s.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			UnitCost:    it.UnitCost,
			Discount:    it.Discount,
			Total:       it.Total,
			Position:    i,
		}
	}
	return m
}
