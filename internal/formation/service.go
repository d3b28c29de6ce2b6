package formation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

var ErrNotFound = errors.New("training session not found")

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

type CreateSessionRequest struct {
	Titre        string    `json:"titre" binding:"required"`
	Formateur    string    `json:"formateur" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	Participants int       `json:"participants" binding:"min=0"`
	Duree        string    `json:"duree" binding:"required"`
}

func (s *Service) Create(ctx context.Context, req CreateSessionRequest) (*TrainingSession, error) {
	session := &TrainingSession{
		ID:           uuid.New(),
		Titre:        req.Titre,
		Formateur:    req.Formateur,
		Date:         req.Date,
		Participants: req.Participants,
		Duree:        req.Duree,
		Statut:       StatusPlanned,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("training session created",
		zap.String("code", session.Code),
		zap.String("titre", session.Titre))
	return session, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TrainingSession, error) {
	session, err := s.repo.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	return session, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]TrainingSession, int, error) {
	return s.repo.ListSessions(ctx, filter)
}

type UpdateSessionRequest struct {
	Titre        *string    `json:"titre"`
	Formateur    *string    `json:"formateur"`
	Date         *time.Time `json:"date"`
	Participants *int       `json:"participants"`
	Duree        *string    `json:"duree"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSessionRequest) (*TrainingSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Titre != nil {
		session.Titre = *req.Titre
	}
	if req.Formateur != nil {
		session.Formateur = *req.Formateur
	}
	if req.Date != nil {
		session.Date = *req.Date
	}
	if req.Participants != nil {
		session.Participants = *req.Participants
	}
	if req.Duree != nil {
		session.Duree = *req.Duree
	}

	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSession(ctx, id)
}

func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, target workflows.Status) (*TrainingSession, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.lifecycle.Transition(session.Statut, target); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetSessionStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	s.logger.Info("training session status changed",
		zap.String("code", updated.Code),
		zap.String("statut", string(target)))
	return updated, nil
}
