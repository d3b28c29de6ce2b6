package projects

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

var ErrNotFound = errors.New("project not found")

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

type CreateProjectRequest struct {
	Intitule   string     `json:"intitule" binding:"required"`
	Client     string     `json:"client" binding:"required"`
	ChefProjet string     `json:"chef_projet" binding:"required"`
	DateDebut  time.Time  `json:"date_debut" binding:"required"`
	DateFin    *time.Time `json:"date_fin"`
}

func (s *Service) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	p := &Project{
		ID:          uuid.New(),
		Intitule:    req.Intitule,
		Client:      req.Client,
		ChefProjet:  req.ChefProjet,
		DateDebut:   req.DateDebut,
		DateFin:     req.DateFin,
		Progression: 0,
		Statut:      StatusOngoing,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		zap.String("code", p.Code),
		zap.String("client", p.Client))
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := s.repo.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Project, int, error) {
	return s.repo.ListProjects(ctx, filter)
}

type UpdateProjectRequest struct {
	Intitule    *string    `json:"intitule"`
	Client      *string    `json:"client"`
	ChefProjet  *string    `json:"chef_projet"`
	DateDebut   *time.Time `json:"date_debut"`
	DateFin     *time.Time `json:"date_fin"`
	Progression *int       `json:"progression"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Intitule != nil {
		p.Intitule = *req.Intitule
	}
	if req.Client != nil {
		p.Client = *req.Client
	}
	if req.ChefProjet != nil {
		p.ChefProjet = *req.ChefProjet
	}
	if req.DateDebut != nil {
		p.DateDebut = *req.DateDebut
	}
	if req.DateFin != nil {
		p.DateFin = req.DateFin
	}
	if req.Progression != nil {
		if *req.Progression < 0 || *req.Progression > 100 {
			return nil, fmt.Errorf("progression %d out of range 0-100", *req.Progression)
		}
		p.Progression = *req.Progression
	}

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, id)
}

// SetStatus moves the project through its lifecycle; illegal moves surface as
// *workflows.InvalidTransitionError.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, target workflows.Status) (*Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Transition(p.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetProjectStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("project status changed",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)))
	return updated, nil
}
