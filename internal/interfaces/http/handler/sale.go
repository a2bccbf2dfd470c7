package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	salesapp "github.com/pdv/backend/internal/application/sales"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// IdempotencyKeyHeader carries the client generated key of POST /sales
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// SaleHandler handles sale endpoints
type SaleHandler struct {
	BaseHandler
	saleService    *salesapp.SaleService
	receiptService *salesapp.ReceiptService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService, receiptService *salesapp.ReceiptService) *SaleHandler {
	return &SaleHandler{
		saleService:    saleService,
		receiptService: receiptService,
	}
}

// Create godoc
// @ID           createSale
// @Summary      Register a sale
// @Description  Registers a completed sale priced from the catalog. A repeated Idempotency-Key from the same user within 24h answers 409.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                      false "Client generated request key"
// @Param        request         body   salesapp.CreateSaleRequest true  "Sale"
// @Success      201 {object} APIResponse[salesapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	cashier, ok := h.identityOf(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		middleware.AbortWithValidationError(c, IdempotencyKeyHeader, "Must be at most 128 characters")
		return
	}
	var req salesapp.CreateSaleRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	sale, err := h.saleService.Create(c.Request.Context(), cashier, key, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, sale.ID.String())
	middleware.SetAuditChanges(c, nil, sale)
	h.Created(c, sale)
}

// GetByID godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page      query int    false "Page number" default(1)
// @Param        pageSize  query int    false "Page size" default(20)
// @Param        status    query string false "Status" Enums(open, completed, cancelled)
// @Param        cashierId query string false "Cashier ID" format(uuid)
// @Param        from      query string false "First day (YYYY-MM-DD)"
// @Param        to        query string false "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[salesapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter salesapp.SaleListFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// Cancel godoc
// @ID           cancelSale
// @Summary      Cancel a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Sale ID" format(uuid)
// @Param        request body salesapp.CancelSaleRequest true "Reason"
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req salesapp.CancelSaleRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.saleService.Cancel(c.Request.Context(), actor, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.transitioned(c, change)
}

// Reopen godoc
// @ID           reopenSale
// @Summary      Reopen a cancelled sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/reopen [post]
func (h *SaleHandler) Reopen(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	change, err := h.saleService.Reopen(c.Request.Context(), actor, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.transitioned(c, change)
}

// Complete godoc
// @ID           completeSale
// @Summary      Complete an open sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Sale ID" format(uuid)
// @Param        request body salesapp.CompleteSaleRequest true "Payment"
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/complete [post]
func (h *SaleHandler) Complete(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req salesapp.CompleteSaleRequest
	if c.Request.ContentLength != 0 && !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.saleService.Complete(c.Request.Context(), actor, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.transitioned(c, change)
}

// Receipt godoc
// @ID           getSaleReceipt
// @Summary      Sale receipt
// @Description  Renders the receipt as PDF, or as HTML when PDF rendering is disabled
// @Tags         sales
// @Produce      application/pdf
// @Produce      text/html
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.receiptService.Render(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func (h *SaleHandler) transitioned(c *gin.Context, change *salesapp.SaleChange) {
	middleware.SetAuditChanges(c,
		gin.H{"status": change.Before.Status},
		gin.H{"status": change.After.Status, "cancelReason": change.After.CancelReason},
	)
	h.Success(c, change.After)
}
