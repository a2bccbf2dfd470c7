package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/catalog"
	"github.com/pdv/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// Create creates a new product. SKUs are unique.
func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.toInput())
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueSKU(ctx, product.SKU, nil); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID.String()), zap.String("sku", product.SKU))
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns a page of products, sorted by name by default
func (s *ProductService) List(ctx context.Context, f ProductListFilter) ([]ProductResponse, int64, error) {
	filter := catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		},
		Keyword:  f.Search,
		Category: strings.TrimSpace(f.Category),
		Active:   f.Active,
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	filter.Normalize()

	products, total, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, total, nil
}

// Update replaces the editable attributes of a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req ProductRequest) (*ProductChange, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToProductResponse(product)

	if err := product.Update(req.toInput()); err != nil {
		return nil, err
	}
	if product.SKU != before.SKU {
		if err := s.ensureUniqueSKU(ctx, product.SKU, &product.ID); err != nil {
			return nil, err
		}
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	return &ProductChange{Before: before, After: ToProductResponse(product)}, nil
}

// SetActive activates or deactivates a product. Inactive products cannot be sold.
func (s *ProductService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*ProductChange, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToProductResponse(product)

	product.SetActive(active)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product status changed", zap.String("product_id", product.ID.String()), zap.Bool("active", active))
	return &ProductChange{Before: before, After: ToProductResponse(product)}, nil
}

func (s *ProductService) ensureUniqueSKU(ctx context.Context, sku string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}
	return nil
}
