package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an item sold at the point of sale
type Product struct {
	shared.BaseEntity
	SKU      string
	Name     string
	Category string
	Unit     string
	Barcode  string
	Price    decimal.Decimal
	Cost     decimal.Decimal
	Active   bool
}

// ProductInput carries the editable attributes of a product
type ProductInput struct {
	SKU      string
	Name     string
	Category string
	Unit     string
	Barcode  string
	Price    decimal.Decimal
	Cost     decimal.Decimal
}

// NewProduct creates an active product
func NewProduct(in ProductInput) (*Product, error) {
	p := &Product{
		BaseEntity: shared.NewBaseEntity(),
		Active:     true,
	}
	if err := p.apply(in); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the editable attributes
func (p *Product) Update(in ProductInput) error {
	if err := p.apply(in); err != nil {
		return err
	}
	p.Touch()
	return nil
}

// SetActive toggles whether the product can be sold
func (p *Product) SetActive(active bool) {
	p.Active = active
	p.Touch()
}

// Margin returns price minus cost
func (p *Product) Margin() decimal.Decimal {
	return p.Price.Sub(p.Cost)
}

func (p *Product) apply(in ProductInput) error {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if in.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if in.Cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "un"
	}

	p.SKU = sku
	p.Name = name
	p.Category = strings.TrimSpace(in.Category)
	p.Unit = unit
	p.Barcode = strings.TrimSpace(in.Barcode)
	p.Price = in.Price
	p.Cost = in.Cost
	return nil
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	ExistsBySKU(ctx context.Context, sku string, excludeID *uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
}

// ProductFilter contains filter options for listing products
type ProductFilter struct {
	shared.Filter

	// Search matches SKU, name or barcode
	Keyword  string
	Category string
	Active   *bool
}
