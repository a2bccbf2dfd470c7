package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/pdv/backend/internal/application/finance"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// FinancialTransactionHandler handles standalone income and expense entries
type FinancialTransactionHandler struct {
	BaseHandler
	service *financeapp.TransactionService
}

// NewFinancialTransactionHandler creates a new FinancialTransactionHandler
func NewFinancialTransactionHandler(service *financeapp.TransactionService) *FinancialTransactionHandler {
	return &FinancialTransactionHandler{service: service}
}

// Create godoc
// @ID           createFinancialTransaction
// @Summary      Create a financial transaction
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        request body financeapp.TransactionRequest true "Transaction"
// @Success      201 {object} APIResponse[financeapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions [post]
func (h *FinancialTransactionHandler) Create(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	var req financeapp.TransactionRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	tx, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, tx.ID.String())
	middleware.SetAuditChanges(c, nil, tx)
	h.Created(c, tx)
}

// GetByID godoc
// @ID           getFinancialTransaction
// @Summary      Get a financial transaction
// @Tags         financial-transactions
// @Produce      json
// @Param        id path string true "Transaction ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.TransactionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions/{id} [get]
func (h *FinancialTransactionHandler) GetByID(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	tx, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, tx)
}

// List godoc
// @ID           listFinancialTransactions
// @Summary      List financial transactions
// @Tags         financial-transactions
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size" default(20)
// @Param        type     query string false "Type" Enums(income, expense)
// @Param        status   query string false "Status" Enums(open, paid, received, cancelled)
// @Param        category query string false "Category"
// @Param        overdue  query bool   false "Only overdue entries"
// @Param        from     query string false "First due day (YYYY-MM-DD)"
// @Param        to       query string false "Last due day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} ListResponse[financeapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions [get]
func (h *FinancialTransactionHandler) List(c *gin.Context) {
	var filter financeapp.TransactionListFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	txs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, txs, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateFinancialTransaction
// @Summary      Update an open financial transaction
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Transaction ID" format(uuid)
// @Param        request body financeapp.TransactionRequest true "Transaction"
// @Success      200 {object} APIResponse[financeapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions/{id} [put]
func (h *FinancialTransactionHandler) Update(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.TransactionRequest
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

// Settle godoc
// @ID           settleFinancialTransaction
// @Summary      Settle a financial transaction
// @Description  Marks an expense as paid or an income as received
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Transaction ID" format(uuid)
// @Param        request body financeapp.SettleRequest true "Settlement"
// @Success      200 {object} APIResponse[financeapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions/{id}/settle [post]
func (h *FinancialTransactionHandler) Settle(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req financeapp.SettleRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.service.Settle(c.Request.Context(), id, req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.changed(c, change)
}

// Cancel godoc
// @ID           cancelFinancialTransaction
// @Summary      Cancel a financial transaction
// @Tags         financial-transactions
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Transaction ID" format(uuid)
// @Param        request body financeapp.CancelRequest true "Reason"
// @Success      200 {object} APIResponse[financeapp.TransactionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/transactions/{id}/cancel [post]
func (h *FinancialTransactionHandler) Cancel(c *gin.Context) {
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

func (h *FinancialTransactionHandler) changed(c *gin.Context, change *financeapp.TransactionChange) {
	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}
