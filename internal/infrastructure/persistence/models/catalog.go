package models

import (
	"github.com/pdv/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	SKU      string          `gorm:"column:sku;type:varchar(50);not null;uniqueIndex"`
	Name     string          `gorm:"type:varchar(200);not null"`
	Category string          `gorm:"type:varchar(100);index"`
	Unit     string          `gorm:"type:varchar(20);not null;default:'un'"`
	Barcode  string          `gorm:"type:varchar(50);index"`
	Price    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Cost     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0"`
	Active   bool            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseEntity: m.BaseModel.ToDomain(),
		SKU:        m.SKU,
		Name:       m.Name,
		Category:   m.Category,
		Unit:       m.Unit,
		Barcode:    m.Barcode,
		Price:      m.Price,
		Cost:       m.Cost,
		Active:     m.Active,
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		SKU:      p.SKU,
		Name:     p.Name,
		Category: p.Category,
		Unit:     p.Unit,
		Barcode:  p.Barcode,
		Price:    p.Price,
		Cost:     p.Cost,
		Active:   p.Active,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
