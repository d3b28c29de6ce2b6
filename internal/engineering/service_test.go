package engineering

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

func (m *MockRepository) CreateIntervention(ctx context.Context, i *Intervention) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockRepository) GetInterventionByID(ctx context.Context, id uuid.UUID) (*Intervention, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intervention), args.Error(1)
}

func (m *MockRepository) ListInterventions(ctx context.Context, filter Filter) ([]Intervention, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Intervention), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateIntervention(ctx context.Context, i *Intervention) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockRepository) DeleteIntervention(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetInterventionStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Intervention, error) {
	args := m.Called(ctx, id, statut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Intervention), args.Error(1)
}

func TestCreateInterventionStartsPlanned(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	mockRepo.On("CreateIntervention", mock.Anything, mock.AnythingOfType("*engineering.Intervention")).
		Run(func(args mock.Arguments) {
			i := args.Get(1).(*Intervention)
			i.Code = "ENG-INT-2026-001"
		}).Return(nil)

	i, err := service.Create(context.Background(), CreateInterventionRequest{
		Client:     "Acme SA",
		Site:       "Usine Nord",
		Technicien: "Karim Haddad",
		Date:       time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Type:       TypeMaintenance,
	})

	assert.NoError(t, err)
	assert.Equal(t, "ENG-INT-2026-001", i.Code)
	assert.Equal(t, StatusPlanned, i.Statut)
}

func TestInterventionLifecycleOrder(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	planned := &Intervention{ID: id, Statut: StatusPlanned}
	ongoing := &Intervention{ID: id, Statut: StatusOngoing}

	// A planned intervention cannot jump straight to finished.
	mockRepo.On("GetInterventionByID", mock.Anything, id).Return(planned, nil).Once()
	_, err := service.SetStatus(context.Background(), id, StatusFinished)
	var invalid *workflows.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	mockRepo.On("GetInterventionByID", mock.Anything, id).Return(planned, nil).Once()
	mockRepo.On("SetInterventionStatus", mock.Anything, id, StatusOngoing).Return(ongoing, nil)
	i, err := service.SetStatus(context.Background(), id, StatusOngoing)
	assert.NoError(t, err)
	assert.Equal(t, StatusOngoing, i.Statut)
}

func TestFinishedInterventionIsTerminal(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetInterventionByID", mock.Anything, id).
		Return(&Intervention{ID: id, Statut: StatusFinished}, nil)

	_, err := service.SetStatus(context.Background(), id, StatusOngoing)

	var invalid *workflows.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	mockRepo.AssertNotCalled(t, "SetInterventionStatus", mock.Anything, mock.Anything, mock.Anything)
}
