package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/pdv/backend/internal/application/identity"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Login godoc
// @ID           login
// @Summary      Log in
// @Description  Exchanges email and password for an access and refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identityapp.TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.auditSession(c, tokens)
	h.Success(c, tokens)
}

// auditSession attributes a token issue on a public route to the user it
// was issued for.
func (h *AuthHandler) auditSession(c *gin.Context, tokens *identityapp.TokenResponse) {
	if tokens.User == nil {
		return
	}
	middleware.SetAuditActor(c, tokens.User.ID)
	middleware.SetAuditEntity(c, tokens.User.ID.String())
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh tokens
// @Description  Rotates a refresh token into a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[identityapp.TokenResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.auditSession(c, tokens)
	h.Success(c, tokens)
}

// Logout godoc
// @ID           logout
// @Summary      Log out
// @Description  Revokes the access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c)
		return
	}

	var req identityapp.LogoutRequest
	if c.Request.ContentLength != 0 && !middleware.BindJSON(c, &req) {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims, req); err != nil {
		h.Error(c, err)
		return
	}
	middleware.SetAuditEntity(c, claims.Subject)
	h.Success(c, MessageData{Message: "Logged out"})
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Description  Returns the authenticated user
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := h.identityOf(c)
	if !ok {
		return
	}

	user, err := h.authService.Me(c.Request.Context(), id.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Replaces the caller's password after checking the current one
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.ChangePasswordRequest true "Passwords"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := h.identityOf(c)
	if !ok {
		return
	}

	var req identityapp.ChangePasswordRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), id.UserID, req); err != nil {
		h.Error(c, err)
		return
	}
	middleware.SetAuditEntity(c, id.UserID.String())
	h.Success(c, MessageData{Message: "Password changed"})
}

// Register godoc
// @ID           registerUser
// @Summary      Register a user
// @Description  Creates a new active user. Admin only.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterRequest true "New user"
// @Success      201 {object} APIResponse[identityapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	middleware.SetAuditEntity(c, user.ID.String())
	middleware.SetAuditChanges(c, nil, user)
	h.Created(c, user)
}
