package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/pdv/backend/internal/application/catalog"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.ProductRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, product.ID.String())
	middleware.SetAuditChanges(c, nil, product)
	h.Created(c, product)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size" default(20)
// @Param        search   query string false "SKU, name or barcode"
// @Param        category query string false "Category"
// @Param        active   query bool   false "Active flag"
// @Param        orderBy  query string false "Sort column" Enums(created_at, updated_at, sku, name, category, price)
// @Param        orderDir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} ListResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Product ID" format(uuid)
// @Param        request body catalogapp.ProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ProductRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

// UpdateStatus godoc
// @ID           updateProductStatus
// @Summary      Activate or deactivate a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/status [patch]
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateStatusRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.productService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}
