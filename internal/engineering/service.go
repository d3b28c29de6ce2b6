package engineering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

var ErrNotFound = errors.New("intervention not found")

type Service struct {
	repo      Repository
	logger    *zap.Logger
	lifecycle *workflows.StateMachine
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		logger:    logger,
		lifecycle: NewLifecycle(),
	}
}

type CreateInterventionRequest struct {
	Client     string           `json:"client" binding:"required"`
	Site       string           `json:"site" binding:"required"`
	Technicien string           `json:"technicien" binding:"required"`
	Date       time.Time        `json:"date" binding:"required"`
	Type       InterventionType `json:"type"`
}

func (s *Service) Create(ctx context.Context, req CreateInterventionRequest) (*Intervention, error) {
	interventionType := req.Type
	if interventionType == "" {
		interventionType = TypeOther
	}

	i := &Intervention{
		ID:         uuid.New(),
		Client:     req.Client,
		Site:       req.Site,
		Technicien: req.Technicien,
		Date:       req.Date,
		Type:       interventionType,
		Statut:     StatusPlanned,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.repo.CreateIntervention(ctx, i); err != nil {
		return nil, err
	}

	s.logger.Info("intervention created",
		zap.String("code", i.Code),
		zap.String("site", i.Site))
	return i, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Intervention, error) {
	i, err := s.repo.GetInterventionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, ErrNotFound
	}
	return i, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Intervention, int, error) {
	return s.repo.ListInterventions(ctx, filter)
}

type UpdateInterventionRequest struct {
	Client     *string           `json:"client"`
	Site       *string           `json:"site"`
	Technicien *string           `json:"technicien"`
	Date       *time.Time        `json:"date"`
	Type       *InterventionType `json:"type"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateInterventionRequest) (*Intervention, error) {
	i, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Client != nil {
		i.Client = *req.Client
	}
	if req.Site != nil {
		i.Site = *req.Site
	}
	if req.Technicien != nil {
		i.Technicien = *req.Technicien
	}
	if req.Date != nil {
		i.Date = *req.Date
	}
	if req.Type != nil {
		i.Type = *req.Type
	}

	if err := s.repo.UpdateIntervention(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteIntervention(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, target workflows.Status) (*Intervention, error) {
	i, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Transition(i.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetInterventionStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("intervention status changed",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)))
	return updated, nil
}
