package hr

import (
	"errors"
	"io"
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

// RegisterRoutes registers the HR routes. The whole group is restricted to
// managers and admins, matching the record-management policy; transition
// endpoints re-check the actor in the service layer.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	hr := rg.Group("/hr", auth.RequireRoles(auth.RoleManager, auth.RoleAdmin))
	{
		employees := hr.Group("/employees")
		{
			employees.GET("", h.ListEmployees)
			employees.POST("", h.CreateEmployee)
			employees.GET("/stats", h.EmployeeStats)
			employees.GET("/export", h.ExportEmployees)
			employees.GET("/:id", h.GetEmployee)
			employees.PUT("/:id", h.UpdateEmployee)
			employees.DELETE("/:id", h.DeleteEmployee)
		}

		timeRecords := hr.Group("/time-records")
		{
			timeRecords.GET("", h.ListTimeRecords)
			timeRecords.POST("", h.CreateTimeRecord)
			timeRecords.GET("/:id", h.GetTimeRecord)
			timeRecords.PUT("/:id", h.UpdateTimeRecord)
			timeRecords.DELETE("/:id", h.DeleteTimeRecord)
			timeRecords.POST("/:id/overtime", h.SetOvertime)
		}

		leaves := hr.Group("/leave-requests")
		{
			leaves.GET("", h.ListLeaveRequests)
			leaves.POST("", h.CreateLeaveRequest)
			leaves.GET("/:id", h.GetLeaveRequest)
			leaves.PUT("/:id", h.UpdateLeaveRequest)
			leaves.DELETE("/:id", h.DeleteLeaveRequest)
			leaves.POST("/:id/approve", h.ApproveLeaveRequest)
			leaves.POST("/:id/reject", h.RejectLeaveRequest)
		}

		auths := hr.Group("/authorizations")
		{
			auths.GET("", h.ListAuthorizations)
			auths.POST("", h.CreateAuthorization)
			auths.GET("/:id", h.GetAuthorization)
			auths.PUT("/:id", h.UpdateAuthorization)
			auths.DELETE("/:id", h.DeleteAuthorization)
			auths.POST("/:id/approve", h.ApproveAuthorization)
			auths.POST("/:id/reject", h.RejectAuthorization)
		}

		expenses := hr.Group("/expense-reports")
		{
			expenses.GET("", h.ListExpenseReports)
			expenses.POST("", h.CreateExpenseReport)
			expenses.GET("/export", h.ExportExpenseReports)
			expenses.GET("/:id", h.GetExpenseReport)
			expenses.GET("/:id/pdf", h.ExpenseReportPDF)
			expenses.PUT("/:id", h.UpdateExpenseReport)
			expenses.DELETE("/:id", h.DeleteExpenseReport)
			expenses.POST("/:id/validate", h.ValidateExpenseReport)
			expenses.POST("/:id/reject", h.RejectExpenseReport)
		}
	}
}

// respondServiceError maps service errors onto the HTTP taxonomy: missing
// record, missing privilege and illegal transition each get their own status
// so clients can tell them apart.
func (h *Handler) respondServiceError(c *gin.Context, err error) {
	var invalid *workflows.InvalidTransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		common.RespondError(c, http.StatusNotFound, "record not found", nil)
	case errors.Is(err, ErrForbidden):
		common.RespondError(c, http.StatusForbidden, err.Error(), nil)
	case errors.As(err, &invalid):
		common.RespondError(c, http.StatusUnprocessableEntity, invalid.Error(), gin.H{
			"statut":  invalid.To,
			"allowed": invalid.Allowed,
		})
	default:
		h.logger.Error("hr request failed", zap.Error(err))
		common.RespondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func recordFilter(c *gin.Context, p common.Pagination) RecordFilter {
	filter := RecordFilter{
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}
	if statut := c.Query("statut"); statut != "" {
		s := workflows.Status(statut)
		filter.Statut = &s
	}
	if recordType := c.Query("type"); recordType != "" {
		filter.Type = &recordType
	}
	if employee := c.Query("employee"); employee != "" {
		if id, err := uuid.Parse(employee); err == nil {
			filter.EmployeeID = &id
		}
	}
	return filter
}

// transitionRequest is the shared body for approve/reject/validate actions.
// Notes are accepted for client compatibility and logged; there is no audit
// trail to store them in.
type transitionRequest struct {
	Notes   string   `json:"notes"`
	Montant *float64 `json:"montant"`
}

// bindTransition parses the optional body. An absent body is fine; a body
// that does not parse is rejected so a mistyped montant cannot silently turn
// into a no-override validation.
func (h *Handler) bindTransition(c *gin.Context) (transitionRequest, bool) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return req, false
	}
	if req.Notes != "" {
		h.logger.Info("transition notes received",
			zap.String("record_id", c.Param("id")),
			zap.String("notes", req.Notes))
	}
	return req, true
}

// ---------------------------------------------------------------------------
// Employees

func (h *Handler) ListEmployees(c *gin.Context) {
	p := common.ParsePagination(c)
	filter := EmployeeFilter{
		Search: c.Query("search"),
		Limit:  p.Limit,
		Offset: p.Offset(),
	}
	if statut := c.Query("statut"); statut != "" {
		s := EmployeeStatus(statut)
		filter.Statut = &s
	}
	if dept := c.Query("departement"); dept != "" {
		filter.Departement = &dept
	}
	if poste := c.Query("poste"); poste != "" {
		filter.Poste = &poste
	}

	employees, total, err := h.service.ListEmployees(c.Request.Context(), filter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(employees, total, p), "Success")
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	e, err := h.service.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, e, "Employee created")
}

func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, e, "Success")
}

func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	e, err := h.service.UpdateEmployee(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, e, "Employee updated")
}

func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) EmployeeStats(c *gin.Context) {
	stats, err := h.service.GetEmployeeStats(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, stats, "Statistics retrieved successfully")
}

func (h *Handler) ExportEmployees(c *gin.Context) {
	buf, err := h.service.ExportEmployeesExcel(c.Request.Context(), EmployeeFilter{Search: c.Query("search")})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ---------------------------------------------------------------------------
// Time records

func (h *Handler) ListTimeRecords(c *gin.Context) {
	p := common.ParsePagination(c)
	records, total, err := h.service.ListTimeRecords(c.Request.Context(), recordFilter(c, p))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(records, total, p), "Success")
}

func (h *Handler) CreateTimeRecord(c *gin.Context) {
	var req CreateTimeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	tr, err := h.service.CreateTimeRecord(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, tr, "Time record created")
}

func (h *Handler) GetTimeRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tr, err := h.service.GetTimeRecord(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, tr, "Success")
}

func (h *Handler) UpdateTimeRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateTimeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	tr, err := h.service.UpdateTimeRecord(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, tr, "Time record updated")
}

func (h *Handler) DeleteTimeRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTimeRecord(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) SetOvertime(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		HSValide *bool `json:"hs_valide" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "hs_valide is required", err.Error())
		return
	}

	actor, _ := auth.ActorFromContext(c)
	tr, err := h.service.SetOvertimeApproved(c.Request.Context(), id, *req.HSValide, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, tr, "Time record updated")
}

// ---------------------------------------------------------------------------
// Leave requests

func (h *Handler) ListLeaveRequests(c *gin.Context) {
	p := common.ParsePagination(c)
	requests, total, err := h.service.ListLeaveRequests(c.Request.Context(), recordFilter(c, p))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(requests, total, p), "Success")
}

func (h *Handler) CreateLeaveRequest(c *gin.Context) {
	var req CreateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	lr, err := h.service.CreateLeaveRequest(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, lr, "Leave request created")
}

func (h *Handler) GetLeaveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	lr, err := h.service.GetLeaveRequest(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, lr, "Success")
}

func (h *Handler) UpdateLeaveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateLeaveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	lr, err := h.service.UpdateLeaveRequest(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, lr, "Leave request updated")
}

func (h *Handler) DeleteLeaveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLeaveRequest(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ApproveLeaveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, ok := h.bindTransition(c); !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	lr, err := h.service.ApproveLeaveRequest(c.Request.Context(), id, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, lr, "Leave request approved")
}

func (h *Handler) RejectLeaveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, ok := h.bindTransition(c); !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	lr, err := h.service.RejectLeaveRequest(c.Request.Context(), id, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, lr, "Leave request rejected")
}

// ---------------------------------------------------------------------------
// Authorizations

func (h *Handler) ListAuthorizations(c *gin.Context) {
	p := common.ParsePagination(c)
	auths, total, err := h.service.ListAuthorizations(c.Request.Context(), recordFilter(c, p))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(auths, total, p), "Success")
}

func (h *Handler) CreateAuthorization(c *gin.Context) {
	var req CreateAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := h.service.CreateAuthorization(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, a, "Authorization created")
}

func (h *Handler) GetAuthorization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.service.GetAuthorization(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, a, "Success")
}

func (h *Handler) UpdateAuthorization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateAuthorizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	a, err := h.service.UpdateAuthorization(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, a, "Authorization updated")
}

func (h *Handler) DeleteAuthorization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteAuthorization(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ApproveAuthorization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, ok := h.bindTransition(c); !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	a, err := h.service.ApproveAuthorization(c.Request.Context(), id, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, a, "Authorization approved")
}

func (h *Handler) RejectAuthorization(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, ok := h.bindTransition(c); !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	a, err := h.service.RejectAuthorization(c.Request.Context(), id, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, a, "Authorization rejected")
}

// ---------------------------------------------------------------------------
// Expense reports

func (h *Handler) ListExpenseReports(c *gin.Context) {
	p := common.ParsePagination(c)
	reports, total, err := h.service.ListExpenseReports(c.Request.Context(), recordFilter(c, p))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, common.NewPaginated(reports, total, p), "Success")
}

func (h *Handler) CreateExpenseReport(c *gin.Context) {
	var req CreateExpenseReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	er, err := h.service.CreateExpenseReport(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusCreated, er, "Expense report created")
}

func (h *Handler) GetExpenseReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	er, err := h.service.GetExpenseReport(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, er, "Success")
}

func (h *Handler) UpdateExpenseReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateExpenseReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	er, err := h.service.UpdateExpenseReport(c.Request.Context(), id, req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, er, "Expense report updated")
}

func (h *Handler) DeleteExpenseReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteExpenseReport(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ValidateExpenseReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	req, ok := h.bindTransition(c)
	if !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	er, err := h.service.ValidateExpenseReport(c.Request.Context(), id, req.Montant, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, er, "Expense report validated")
}

func (h *Handler) RejectExpenseReport(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, ok := h.bindTransition(c); !ok {
		return
	}

	actor, _ := auth.ActorFromContext(c)
	er, err := h.service.RejectExpenseReport(c.Request.Context(), id, actor)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, er, "Expense report rejected")
}

func (h *Handler) ExpenseReportPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	buf, code, err := h.service.ExportExpenseReportPDF(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+code+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) ExportExpenseReports(c *gin.Context) {
	buf, err := h.service.ExportExpenseReportsExcel(c.Request.Context(), RecordFilter{Search: c.Query("search")})
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="expense-reports.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
