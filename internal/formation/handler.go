package formation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/internal/auth"
	"visio-hr/hr-portal-backend/internal/common"
	"visio-hr/hr-portal-backend/pkg/workflows"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/training-sessions", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin))
	{
		sessions.GET("", h.List)
		sessions.POST("", h.Create)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id", h.Update)
		sessions.DELETE("/:id", h.Delete)
		sessions.POST("/:id/status", h.SetStatus)
	}
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var invalid *workflows.InvalidTransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		common.RespondError(c, http.StatusNotFound, "training session not found", nil)
	case errors.As(err, &invalid):
		common.RespondError(c, http.StatusUnprocessableEntity, invalid.Error(), gin.H{
			"statut":  invalid.To,
			"allowed": invalid.Allowed,
		})
	default:
		h.logger.Error("training session request failed", zap.Error(err))
		common.RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func (h *Handler) List(c *gin.Context) {
	p := common.ParsePagination(c)
	filter := Filter{
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}
	if statut := c.Query("statut"); statut != "" {
		s := workflows.Status(statut)
		filter.Statut = &s
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(list, total, p), "Success")
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, session, "Training session created")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	session, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, session, "Success")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	session, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, session, "Training session updated")
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

func (h *Handler) SetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req struct {
		Statut workflows.Status `json:"statut" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "statut is required", err.Error())
		return
	}

	session, err := h.service.SetStatus(c.Request.Context(), id, req.Statut)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, session, "Training session status updated")
}
