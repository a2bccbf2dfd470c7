package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/pdv/backend/internal/application/identity"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Lists users filtered by role, active flag and search term
// @Tags         users
// @Produce      json
// @Param        page     query int    false "Page number" default(1)
// @Param        pageSize query int    false "Page size" default(20)
// @Param        search   query string false "Email or name"
// @Param        role     query string false "Role" Enums(admin, manager, cashier)
// @Param        active   query bool   false "Active flag"
// @Success      200 {object} ListResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var filter identityapp.UserListFilter
	if !middleware.BindQuery(c, &filter) {
		return
	}

	users, total, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateStatus godoc
// @ID           updateUserStatus
// @Summary      Enable or disable a user
// @Description  Disabling a user revokes every token they hold. Admins cannot disable themselves.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "User ID" format(uuid)
// @Param        request body identityapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/status [patch]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.identityOf(c)
	if !ok {
		return
	}
	id, ok := middleware.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateStatusRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	change, err := h.userService.SetStatus(c.Request.Context(), actor, id, *req.Active)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditChanges(c, change.Before, change.After)
	h.Success(c, change.After)
}
