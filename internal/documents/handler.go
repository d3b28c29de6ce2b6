package documents

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
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin))
	{
		docs.GET("", h.List)
		docs.POST("", h.Upload)
		docs.GET("/:id", h.Get)
		docs.GET("/:id/download", h.Download)
		docs.GET("/:id/url", h.DownloadURL)
		docs.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		common.RespondError(c, http.StatusNotFound, "document not found", nil)
		return
	}
	h.logger.Error("document request failed", zap.Error(err))
	common.RespondError(c, http.StatusInternalServerError, "internal error", nil)
}

func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "file is required", err.Error())
		return
	}

	docType := DocumentType(c.PostForm("type"))
	if docType == "" {
		docType = DocOther
	}
	nom := c.PostForm("nom")
	if nom == "" {
		nom = file.Filename
	}

	src, err := file.Open()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "unreadable file", err.Error())
		return
	}
	defer src.Close()

	actor, _ := auth.ActorFromContext(c)
	d, err := h.service.Upload(c.Request.Context(), UploadRequest{
		Nom:         nom,
		Type:        docType,
		Departement: c.PostForm("departement"),
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Taille:      file.Size,
		Content:     src,
		UploadedBy:  actor.UserID,
	})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, d, "Document uploaded")
}

func (h *Handler) List(c *gin.Context) {
	p := common.ParsePagination(c)
	filter := Filter{
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}
	if docType := c.Query("type"); docType != "" {
		t := DocumentType(docType)
		filter.Type = &t
	}
	if dept := c.Query("departement"); dept != "" {
		filter.Departement = &dept
	}

	docs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(docs, total, p), "Success")
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	d, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, d, "Success")
}

func (h *Handler) Download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	d, body, err := h.service.Download(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	defer body.Close()

	contentType := d.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+d.FileName+`"`)
	c.DataFromReader(http.StatusOK, d.Taille, contentType, body, nil)
}

func (h *Handler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return
	}

	url, err := h.service.DownloadURL(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, gin.H{"url": url}, "Success")
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
