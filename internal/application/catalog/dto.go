package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductRequest is the body of POST /products and PUT /products/:id
type ProductRequest struct {
	SKU      string          `json:"sku" binding:"required,min=1,max=50"`
	Name     string          `json:"name" binding:"required,min=1,max=200"`
	Category string          `json:"category" binding:"max=100"`
	Unit     string          `json:"unit" binding:"max=10"`
	Barcode  string          `json:"barcode" binding:"max=50"`
	Price    decimal.Decimal `json:"price" binding:"gte=0"`
	Cost     decimal.Decimal `json:"cost" binding:"gte=0"`
}

// UpdateStatusRequest activates or deactivates a product
type UpdateStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ProductListFilter holds the query parameters of GET /products
type ProductListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"orderBy" binding:"omitempty,oneof=created_at updated_at sku name category price"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"max=100"`
	Category string `form:"category" binding:"max=100"`
	Active   *bool  `form:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Unit      string          `json:"unit"`
	Barcode   string          `json:"barcode"`
	Price     decimal.Decimal `json:"price"`
	Cost      decimal.Decimal `json:"cost"`
	Margin    decimal.Decimal `json:"margin"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ProductChange carries a product before and after a mutation
type ProductChange struct {
	Before ProductResponse
	After  ProductResponse
}

// ToProductResponse converts domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		Unit:      p.Unit,
		Barcode:   p.Barcode,
		Price:     p.Price,
		Cost:      p.Cost,
		Margin:    p.Margin(),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r ProductRequest) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		SKU:      r.SKU,
		Name:     r.Name,
		Category: r.Category,
		Unit:     r.Unit,
		Barcode:  r.Barcode,
		Price:    r.Price,
		Cost:     r.Cost,
	}
}
