package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/pdv/backend/internal/application/finance"
	"github.com/pdv/backend/internal/domain/identity"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// titleService is the part shared by payables and receivables
type titleService interface {
	Create(ctx context.Context, actor identity.Identity, req financeapp.TitleRequest) (*financeapp.TitleResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*financeapp.TitleResponse, error)
	List(ctx context.Context, f financeapp.TitleListFilter) ([]financeapp.TitleResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req financeapp.TitleRequest) (*financeapp.TitleChange, error)
	Cancel(ctx context.Context, id uuid.UUID, req financeapp.CancelRequest) (*financeapp.TitleChange, error)
}

type settleFunc func(ctx context.Context, actor identity.Identity, id uuid.UUID, req financeapp.SettlementRequest) (*financeapp.TitleChange, error)

// titleHandler implements the endpoints payables and receivables have in common
type titleHandler struct {
	BaseHandler
	service titleService
	settle  settleFunc
}

func (h *titleHandler) create(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	var req financeapp.TitleRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	title, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, title.ID.String())
	middleware.SetAuditChanges(c, nil, title)
	h.Created(c, title)
}

func (h *titleHandler) get(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	title, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, title)
}

func (h *titleHandler) list(c *gin.Context) {
	var filter financeapp.TitleListFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	titles, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, titles, total, filter.Page, filter.PageSize)
}

func (h *titleHandler) update(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.TitleRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.changed(c, change)
}

func (h *titleHandler) recordSettlement(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.SettlementRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.settle(c.Request.Context(), actor, id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.changed(c, change)
}

func (h *titleHandler) cancel(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.CancelRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.changed(c, change)
}

func (h *titleHandler) changed(c *gin.Context, change *financeapp.TitleChange) {
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}

// PayableHandler handles accounts payable endpoints
type PayableHandler struct {
	titleHandler
}

// NewPayableHandler creates a new PayableHandler
func NewPayableHandler(service *financeapp.PayableService) *PayableHandler {
	return &PayableHandler{titleHandler{service: service, settle: service.RecordPayment}}
}

// Create godoc
// @ID           createPayable
// @Summary      Create an account payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        request body financeapp.TitleRequest true "Payable"
// @Success      201 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables [post]
func (h *PayableHandler) Create(c *gin.Context) { h.create(c) }

// GetByID godoc
// @ID           getPayable
// @Summary      Get an account payable
// @Tags         payables
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables/{id} [get]
func (h *PayableHandler) GetByID(c *gin.Context) { h.get(c) }

// List godoc
// @ID           listPayables
// @Summary      List accounts payable
// @Tags         payables
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size" default(20)
// @Param        status   query string false "Status" Enums(open, partial, paid, cancelled)
// @Param        overdue  query bool   false "Only overdue titles"
// @Param        from     query string false "First due day (YYYY-MM-DD)"
// @Param        to       query string false "Last due day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables [get]
func (h *PayableHandler) List(c *gin.Context) { h.list(c) }

// Update godoc
// @ID           updatePayable
// @Summary      Update an open account payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Payable ID" format(uuid)
// @Param        request body financeapp.TitleRequest true "Payable"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables/{id} [put]
func (h *PayableHandler) Update(c *gin.Context) { h.update(c) }

// RecordPayment godoc
// @ID           recordPayablePayment
// @Summary      Record a payment
// @Description  A payment up to the outstanding amount; paying it all marks the title paid
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Payable ID" format(uuid)
// @Param        request body financeapp.SettlementRequest true "Payment"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables/{id}/payments [post]
func (h *PayableHandler) RecordPayment(c *gin.Context) { h.recordSettlement(c) }

// Cancel godoc
// @ID           cancelPayable
// @Summary      Cancel an account payable
// @Tags         payables
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Payable ID" format(uuid)
// @Param        request body financeapp.CancelRequest true "Reason"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/payables/{id}/cancel [post]
func (h *PayableHandler) Cancel(c *gin.Context) { h.cancel(c) }

// ReceivableHandler handles accounts receivable endpoints
type ReceivableHandler struct {
	titleHandler
}

// NewReceivableHandler creates a new ReceivableHandler
func NewReceivableHandler(service *financeapp.ReceivableService) *ReceivableHandler {
	return &ReceivableHandler{titleHandler{service: service, settle: service.RecordReceipt}}
}

// Create godoc
// @ID           createReceivable
// @Summary      Create an account receivable
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        request body financeapp.TitleRequest true "Receivable"
// @Success      201 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables [post]
func (h *ReceivableHandler) Create(c *gin.Context) { h.create(c) }

// GetByID godoc
// @ID           getReceivable
// @Summary      Get an account receivable
// @Tags         receivables
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables/{id} [get]
func (h *ReceivableHandler) GetByID(c *gin.Context) { h.get(c) }

// List godoc
// @ID           listReceivables
// @Summary      List accounts receivable
// @Tags         receivables
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size" default(20)
// @Param        status   query string false "Status" Enums(open, partial, received, cancelled)
// @Param        overdue  query bool   false "Only overdue titles"
// @Param        from     query string false "First due day (YYYY-MM-DD)"
// @Param        to       query string false "Last due day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables [get]
func (h *ReceivableHandler) List(c *gin.Context) { h.list(c) }

// Update godoc
// @ID           updateReceivable
// @Summary      Update an open account receivable
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Receivable ID" format(uuid)
// @Param        request body financeapp.TitleRequest true "Receivable"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables/{id} [put]
func (h *ReceivableHandler) Update(c *gin.Context) { h.update(c) }

// RecordReceipt godoc
// @ID           recordReceivableReceipt
// @Summary      Record a receipt
// @Description  A receipt up to the outstanding amount; receiving it all marks the title received
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Receivable ID" format(uuid)
// @Param        request body financeapp.SettlementRequest true "Receipt"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables/{id}/receipts [post]
func (h *ReceivableHandler) RecordReceipt(c *gin.Context) { h.recordSettlement(c) }

// Cancel godoc
// @ID           cancelReceivable
// @Summary      Cancel an account receivable
// @Tags         receivables
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Receivable ID" format(uuid)
// @Param        request body financeapp.CancelRequest true "Reason"
// @Success      200 {object} APIResponse[financeapp.TitleResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/receivables/{id}/cancel [post]
func (h *ReceivableHandler) Cancel(c *gin.Context) { h.cancel(c) }
