package hr

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/internal/auth"
	"visio-hr/hr-portal-backend/pkg/workflows"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrForbidden = errors.New("operation requires manager or admin role")
)

// Service carries the HR business logic: CRUD on the five HR entities plus
// the guarded status transitions on workflow records.
type Service struct {
	repo       Repository
	logger     *zap.Logger
	approval   *workflows.StateMachine
	validation *workflows.StateMachine
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		approval:   workflows.NewApprovalMachine(),
		validation: workflows.NewValidationMachine(),
	}
}

// ---------------------------------------------------------------------------
// Employees

type CreateEmployeeRequest struct {
	Nom          string    `json:"nom" binding:"required"`
	Prenom       string    `json:"prenom" binding:"required"`
	Email        string    `json:"email" binding:"required,email"`
	Poste        string    `json:"poste" binding:"required"`
	Departement  string    `json:"departement" binding:"required"`
	DateEmbauche time.Time `json:"date_embauche" binding:"required"`
	Salaire      float64   `json:"salaire" binding:"min=0"`
}

func (s *Service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	e := &Employee{
		ID:           uuid.New(),
		Nom:          req.Nom,
		Prenom:       req.Prenom,
		Email:        req.Email,
		Poste:        req.Poste,
		Departement:  req.Departement,
		DateEmbauche: req.DateEmbauche,
		Salaire:      req.Salaire,
		Statut:       EmployeeActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		zap.String("employee_id", e.ID.String()),
		zap.String("code", e.Code))
	return e, nil
}

func (s *Service) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	e, err := s.repo.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]Employee, int, error) {
	return s.repo.ListEmployees(ctx, filter)
}

type UpdateEmployeeRequest struct {
	Nom          *string         `json:"nom"`
	Prenom       *string         `json:"prenom"`
	Email        *string         `json:"email"`
	Poste        *string         `json:"poste"`
	Departement  *string         `json:"departement"`
	DateEmbauche *time.Time      `json:"date_embauche"`
	Salaire      *float64        `json:"salaire"`
	Statut       *EmployeeStatus `json:"statut"`
}

func (s *Service) UpdateEmployee(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*Employee, error) {
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nom != nil {
		e.Nom = *req.Nom
	}
	if req.Prenom != nil {
		e.Prenom = *req.Prenom
	}
	if req.Email != nil {
		e.Email = *req.Email
	}
	if req.Poste != nil {
		e.Poste = *req.Poste
	}
	if req.Departement != nil {
		e.Departement = *req.Departement
	}
	if req.DateEmbauche != nil {
		e.DateEmbauche = *req.DateEmbauche
	}
	if req.Salaire != nil {
		e.Salaire = *req.Salaire
	}
	if req.Statut != nil {
		e.Statut = *req.Statut
	}

	if err := s.repo.UpdateEmployee(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetEmployee(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteEmployee(ctx, id)
}

func (s *Service) GetEmployeeStats(ctx context.Context) (*EmployeeStats, error) {
	return s.repo.GetEmployeeStats(ctx)
}

// ---------------------------------------------------------------------------
// Time records

type CreateTimeRecordRequest struct {
	EmployeeID  uuid.UUID      `json:"employee_id" binding:"required"`
	Date        time.Time      `json:"date" binding:"required"`
	HeureEntree string         `json:"heure_entree" binding:"required"`
	HeureSortie string         `json:"heure_sortie" binding:"required"`
	Lieu        string         `json:"lieu"`
	Heures      float64        `json:"heures" binding:"min=0"`
	Type        TimeRecordType `json:"type"`
}

func (s *Service) CreateTimeRecord(ctx context.Context, req CreateTimeRecordRequest) (*TimeRecord, error) {
	recordType := req.Type
	if recordType == "" {
		recordType = TimeNormal
	}

	tr := &TimeRecord{
		ID:          uuid.New(),
		EmployeeID:  req.EmployeeID,
		Date:        req.Date,
		HeureEntree: req.HeureEntree,
		HeureSortie: req.HeureSortie,
		Lieu:        req.Lieu,
		Heures:      req.Heures,
		Type:        recordType,
		Statut:      workflows.StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.CreateTimeRecord(ctx, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

func (s *Service) GetTimeRecord(ctx context.Context, id uuid.UUID) (*TimeRecord, error) {
	tr, err := s.repo.GetTimeRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, ErrNotFound
	}
	return tr, nil
}

func (s *Service) ListTimeRecords(ctx context.Context, filter RecordFilter) ([]TimeRecord, int, error) {
	return s.repo.ListTimeRecords(ctx, filter)
}

func (s *Service) DeleteTimeRecord(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetTimeRecord(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTimeRecord(ctx, id)
}

// SetOvertimeApproved drives the time-record status from the overtime flag:
// approving forces Validé, withdrawing the approval puts the record back to
// En attente. Unlike the one-way approval workflows this can oscillate.
func (s *Service) SetOvertimeApproved(ctx context.Context, id uuid.UUID, approved bool, actor auth.Actor) (*TimeRecord, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}

	if _, err := s.GetTimeRecord(ctx, id); err != nil {
		return nil, err
	}

	statut := workflows.StatusPending
	if approved {
		statut = workflows.StatusValidated
	}

	tr, err := s.repo.SetTimeRecordOvertime(ctx, id, approved, statut)
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("time record overtime flag updated",
		zap.String("code", tr.Code),
		zap.Bool("hs_valide", approved),
		zap.String("actor", actor.UserID.String()))
	return tr, nil
}

// ---------------------------------------------------------------------------
// Leave requests

type CreateLeaveRequestRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Debut      time.Time `json:"debut" binding:"required"`
	Fin        time.Time `json:"fin" binding:"required"`
	Jours      int       `json:"jours" binding:"required,min=1"`
	Type       LeaveType `json:"type" binding:"required"`
	Motif      *string   `json:"motif"`
}

func (s *Service) CreateLeaveRequest(ctx context.Context, req CreateLeaveRequestRequest) (*LeaveRequest, error) {
	lr := &LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: req.EmployeeID,
		Debut:      req.Debut,
		Fin:        req.Fin,
		Jours:      req.Jours,
		Type:       req.Type,
		Motif:      req.Motif,
		Statut:     workflows.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.CreateLeaveRequest(ctx, lr); err != nil {
		return nil, err
	}

	s.logger.Info("leave request created",
		zap.String("code", lr.Code),
		zap.String("employee_id", lr.EmployeeID.String()))
	return lr, nil
}

func (s *Service) GetLeaveRequest(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	lr, err := s.repo.GetLeaveRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lr == nil {
		return nil, ErrNotFound
	}
	return lr, nil
}

func (s *Service) ListLeaveRequests(ctx context.Context, filter RecordFilter) ([]LeaveRequest, int, error) {
	return s.repo.ListLeaveRequests(ctx, filter)
}

func (s *Service) DeleteLeaveRequest(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLeaveRequest(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteLeaveRequest(ctx, id)
}

// ApproveLeaveRequest moves a pending leave request to Approuvé.
func (s *Service) ApproveLeaveRequest(ctx context.Context, id uuid.UUID, actor auth.Actor) (*LeaveRequest, error) {
	return s.transitionLeaveRequest(ctx, id, workflows.StatusApproved, actor)
}

// RejectLeaveRequest moves a pending leave request to Refusé.
func (s *Service) RejectLeaveRequest(ctx context.Context, id uuid.UUID, actor auth.Actor) (*LeaveRequest, error) {
	return s.transitionLeaveRequest(ctx, id, workflows.StatusRejected, actor)
}

func (s *Service) transitionLeaveRequest(ctx context.Context, id uuid.UUID, target workflows.Status, actor auth.Actor) (*LeaveRequest, error) {
	// Role before record: an unprivileged caller learns nothing about the
	// record, not even whether it exists.
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}

	lr, err := s.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.approval.Transition(lr.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetLeaveRequestStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("leave request transitioned",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)),
		zap.String("actor", actor.UserID.String()))
	return updated, nil
}

// ---------------------------------------------------------------------------
// Authorizations

type CreateAuthorizationRequest struct {
	EmployeeID uuid.UUID         `json:"employee_id" binding:"required"`
	Date       time.Time         `json:"date" binding:"required"`
	Duree      string            `json:"duree" binding:"required"`
	Type       AuthorizationType `json:"type" binding:"required"`
	Motif      *string           `json:"motif"`
}

func (s *Service) CreateAuthorization(ctx context.Context, req CreateAuthorizationRequest) (*Authorization, error) {
	a := &Authorization{
		ID:         uuid.New(),
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Duree:      req.Duree,
		Type:       req.Type,
		Motif:      req.Motif,
		Statut:     workflows.StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.CreateAuthorization(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("authorization created",
		zap.String("code", a.Code),
		zap.String("employee_id", a.EmployeeID.String()))
	return a, nil
}

func (s *Service) GetAuthorization(ctx context.Context, id uuid.UUID) (*Authorization, error) {
	a, err := s.repo.GetAuthorizationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) ListAuthorizations(ctx context.Context, filter RecordFilter) ([]Authorization, int, error) {
	return s.repo.ListAuthorizations(ctx, filter)
}

func (s *Service) DeleteAuthorization(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetAuthorization(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAuthorization(ctx, id)
}

func (s *Service) ApproveAuthorization(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Authorization, error) {
	return s.transitionAuthorization(ctx, id, workflows.StatusApproved, actor)
}

func (s *Service) RejectAuthorization(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Authorization, error) {
	return s.transitionAuthorization(ctx, id, workflows.StatusRejected, actor)
}

func (s *Service) transitionAuthorization(ctx context.Context, id uuid.UUID, target workflows.Status, actor auth.Actor) (*Authorization, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}

	a, err := s.GetAuthorization(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.approval.Transition(a.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetAuthorizationStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("authorization transitioned",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)),
		zap.String("actor", actor.UserID.String()))
	return updated, nil
}

// ---------------------------------------------------------------------------
// Expense reports

type CreateExpenseReportRequest struct {
	EmployeeID  uuid.UUID   `json:"employee_id" binding:"required"`
	Date        time.Time   `json:"date" binding:"required"`
	Designation string      `json:"designation" binding:"required"`
	Montant     float64     `json:"montant" binding:"min=0"`
	Projet      string      `json:"projet"`
	Type        ExpenseType `json:"type" binding:"required"`
}

func (s *Service) CreateExpenseReport(ctx context.Context, req CreateExpenseReportRequest) (*ExpenseReport, error) {
	er := &ExpenseReport{
		ID:          uuid.New(),
		EmployeeID:  req.EmployeeID,
		Date:        req.Date,
		Designation: req.Designation,
		Montant:     req.Montant,
		Projet:      req.Projet,
		Type:        req.Type,
		Statut:      workflows.StatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.CreateExpenseReport(ctx, er); err != nil {
		return nil, err
	}

	s.logger.Info("expense report created",
		zap.String("code", er.Code),
		zap.Float64("montant", er.Montant))
	return er, nil
}

func (s *Service) GetExpenseReport(ctx context.Context, id uuid.UUID) (*ExpenseReport, error) {
	er, err := s.repo.GetExpenseReportByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if er == nil {
		return nil, ErrNotFound
	}
	return er, nil
}

func (s *Service) ListExpenseReports(ctx context.Context, filter RecordFilter) ([]ExpenseReport, int, error) {
	return s.repo.ListExpenseReports(ctx, filter)
}

func (s *Service) DeleteExpenseReport(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetExpenseReport(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteExpenseReport(ctx, id)
}

// ValidateExpenseReport moves a pending expense report to Validé. When
// montant is non-nil the approver overrides the requested amount with the
// authorized one in the same update.
func (s *Service) ValidateExpenseReport(ctx context.Context, id uuid.UUID, montant *float64, actor auth.Actor) (*ExpenseReport, error) {
	return s.transitionExpenseReport(ctx, id, workflows.StatusValidated, montant, actor)
}

func (s *Service) RejectExpenseReport(ctx context.Context, id uuid.UUID, actor auth.Actor) (*ExpenseReport, error) {
	return s.transitionExpenseReport(ctx, id, workflows.StatusRejected, nil, actor)
}

func (s *Service) transitionExpenseReport(ctx context.Context, id uuid.UUID, target workflows.Status, montant *float64, actor auth.Actor) (*ExpenseReport, error) {
	if !actor.CanModerate() {
		return nil, ErrForbidden
	}

	er, err := s.GetExpenseReport(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validation.Transition(er.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetExpenseReportStatus(ctx, id, target, montant)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("expense report transitioned",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)),
		zap.Float64("montant", updated.Montant),
		zap.String("actor", actor.UserID.String()))
	return updated, nil
}
