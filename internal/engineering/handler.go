package engineering

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
	interventions := rg.Group("/interventions", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin))
	{
		interventions.GET("", h.List)
		interventions.POST("", h.Create)
		interventions.GET("/:id", h.Get)
		interventions.PUT("/:id", h.Update)
		interventions.DELETE("/:id", h.Delete)
		interventions.POST("/:id/status", h.SetStatus)
	}
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var invalid *workflows.InvalidTransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		common.RespondError(c, http.StatusNotFound, "intervention not found", nil)
	case errors.As(err, &invalid):
		common.RespondError(c, http.StatusUnprocessableEntity, invalid.Error(), gin.H{
			"statut":  invalid.To,
			"allowed": invalid.Allowed,
		})
	default:
		h.logger.Error("intervention request failed", zap.Error(err))
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
	if interventionType := c.Query("type"); interventionType != "" {
		t := InterventionType(interventionType)
		filter.Type = &t
	}
	if client := c.Query("client"); client != "" {
		filter.Client = &client
	}

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(list, total, p), "Success")
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	i, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, i, "Intervention created")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	i, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, i, "Success")
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req UpdateInterventionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	i, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, i, "Intervention updated")
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

	i, err := h.service.SetStatus(c.Request.Context(), id, req.Statut)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, i, "Intervention status updated")
}
