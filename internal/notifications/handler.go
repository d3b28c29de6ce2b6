package notifications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/internal/auth"
	"visio-hr/hr-portal-backend/internal/common"
)

type Handler struct {
	service *Service
	hub     *Hub
	logger  *zap.Logger
}

func NewHandler(service *Service, hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{service: service, hub: hub, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		// Creation and full listing are restricted; everyone can read
		// their own feed.
		notifications.POST("", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin), h.Create)
		notifications.GET("", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin), h.List)
		notifications.DELETE("/:id", auth.RequireRoles(auth.RoleAdmin), h.Delete)

		notifications.GET("/me", h.ListMine)
		notifications.GET("/me/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.POST("/read-all", h.MarkAllRead)
		notifications.GET("/ws", h.WebSocket)
	}
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		common.RespondError(c, http.StatusNotFound, "notification not found", nil)
		return
	}
	h.logger.Error("notification request failed", zap.Error(err))
	common.RespondError(c, http.StatusInternalServerError, "internal error", nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	actor, _ := auth.ActorFromContext(c)
	req.CreatedBy = actor.UserID

	n, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, n, "Notification created")
}

func (h *Handler) List(c *gin.Context) {
	p := common.ParsePagination(c)
	list, total, err := h.service.List(c.Request.Context(), p.Limit, p.Offset())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(list, int(total), p), "Success")
}

func (h *Handler) ListMine(c *gin.Context) {
	p := common.ParsePagination(c)
	actor, _ := auth.ActorFromContext(c)

	list, err := h.service.ListForUser(c.Request.Context(), actor.UserID, p.Limit, p.Offset())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, list, "Success")
}

func (h *Handler) UnreadCount(c *gin.Context) {
	actor, _ := auth.ActorFromContext(c)
	count, err := h.service.UnreadCount(c.Request.Context(), actor.UserID)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, gin.H{"unread": count}, "Success")
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	actor, _ := auth.ActorFromContext(c)
	if err := h.service.MarkRead(c.Request.Context(), id, actor.UserID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, nil, "Notification marked as read")
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	actor, _ := auth.ActorFromContext(c)
	if err := h.service.MarkAllRead(c.Request.Context(), actor.UserID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, nil, "All notifications marked as read")
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) WebSocket(c *gin.Context) {
	actor, _ := auth.ActorFromContext(c)
	if err := h.hub.HandleConnection(c.Writer, c.Request, actor.UserID); err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
	}
}
