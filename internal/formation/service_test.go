package formation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/pkg/workflows"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateSession(ctx context.Context, s *TrainingSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) GetSessionByID(ctx context.Context, id uuid.UUID) (*TrainingSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrainingSession), args.Error(1)
}

func (m *MockRepository) ListSessions(ctx context.Context, filter Filter) ([]TrainingSession, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]TrainingSession), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateSession(ctx context.Context, s *TrainingSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetSessionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*TrainingSession, error) {
	args := m.Called(ctx, id, statut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TrainingSession), args.Error(1)
}

func TestCreateSessionStartsPlanned(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	mockRepo.On("CreateSession", mock.Anything, mock.AnythingOfType("*formation.TrainingSession")).
		Run(func(args mock.Arguments) {
			s := args.Get(1).(*TrainingSession)
			s.Code = "FORM-SESS-2026-001"
		}).Return(nil)

	session, err := service.Create(context.Background(), CreateSessionRequest{
		Titre:        "Sécurité sur chantier",
		Formateur:    "Nadia Benali",
		Date:         time.Date(2026, 10, 5, 9, 0, 0, 0, time.UTC),
		Participants: 12,
		Duree:        "2 jours",
	})

	assert.NoError(t, err)
	assert.Equal(t, "FORM-SESS-2026-001", session.Code)
	assert.Equal(t, StatusPlanned, session.Statut)
}

func TestFinishedSessionIsTerminal(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetSessionByID", mock.Anything, id).
		Return(&TrainingSession{ID: id, Statut: StatusFinished}, nil)

	_, err := service.SetStatus(context.Background(), id, StatusOngoing)

	var invalid *workflows.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}
