package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/internal/common"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers auth routes. Register is admin-only; the profile
// endpoints require a valid token.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/api/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/refresh", h.Refresh)

		authed := group.Group("")
		authed.Use(RequireAuth(h.service))
		{
			authed.GET("/me", h.Me)
			authed.POST("/logout", h.Logout)
			authed.POST("/change-password", h.ChangePassword)
			authed.POST("/register", RequireRoles(RoleAdmin), h.Register)
		}
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err == ErrInvalidCredentials {
		common.RespondError(c, http.StatusBadRequest, "Invalid credentials", nil)
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		common.RespondError(c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{"user": user, "tokens": tokens}, "Login successful")
}

func (h *Handler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, "invalid or expired refresh token", nil)
		return
	}

	common.RespondSuccess(c, http.StatusOK, gin.H{"tokens": tokens}, "Token refreshed")
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err == ErrUserExists {
		common.RespondError(c, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		h.logger.Error("registration failed", zap.Error(err))
		common.RespondError(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	common.RespondSuccess(c, http.StatusCreated, user, "User created")
}

// Logout acknowledges the end of a session. Tokens are stateless, so the
// client discards its pair; nothing is revoked server-side.
func (h *Handler) Logout(c *gin.Context) {
	actor, _ := ActorFromContext(c)
	h.logger.Info("user logged out", zap.String("email", actor.Email))
	common.RespondSuccess(c, http.StatusOK, nil, "Logged out")
}

func (h *Handler) Me(c *gin.Context) {
	actor, _ := ActorFromContext(c)

	user, err := h.service.GetUser(c.Request.Context(), actor.UserID)
	if err == ErrUserNotFound {
		common.RespondError(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}

	common.RespondSuccess(c, http.StatusOK, user, "Success")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	actor, _ := ActorFromContext(c)
	err := h.service.ChangePassword(c.Request.Context(), actor.UserID, req.CurrentPassword, req.NewPassword)
	if err == ErrInvalidCredentials {
		common.RespondError(c, http.StatusBadRequest, "current password is incorrect", nil)
		return
	}
	if err != nil {
		common.RespondError(c, http.StatusInternalServerError, "failed to change password", nil)
		return
	}

	common.RespondSuccess(c, http.StatusOK, nil, "Password changed")
}
