package projects

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

func (m *MockRepository) CreateProject(ctx context.Context, p *Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func (m *MockRepository) ListProjects(ctx context.Context, filter Filter) ([]Project, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Project), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateProject(ctx context.Context, p *Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) SetProjectStatus(ctx context.Context, id uuid.UUID, statut workflows.Status) (*Project, error) {
	args := m.Called(ctx, id, statut)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Project), args.Error(1)
}

func TestCreateProjectStartsOngoing(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	mockRepo.On("CreateProject", mock.Anything, mock.AnythingOfType("*projects.Project")).
		Run(func(args mock.Arguments) {
			p := args.Get(1).(*Project)
			p.Code = "PRJ-PROJ-2026-001"
		}).Return(nil)

	p, err := service.Create(context.Background(), CreateProjectRequest{
		Intitule:   "Refonte intranet",
		Client:     "Acme SA",
		ChefProjet: "Claire Martin",
		DateDebut:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, "PRJ-PROJ-2026-001", p.Code)
	assert.Equal(t, StatusOngoing, p.Statut)
	assert.Equal(t, 0, p.Progression)
}

func TestPauseAndResumeProject(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	ongoing := &Project{ID: id, Statut: StatusOngoing}
	paused := &Project{ID: id, Statut: StatusPaused}

	mockRepo.On("GetProjectByID", mock.Anything, id).Return(ongoing, nil).Once()
	mockRepo.On("SetProjectStatus", mock.Anything, id, StatusPaused).Return(paused, nil)

	p, err := service.SetStatus(context.Background(), id, StatusPaused)
	assert.NoError(t, err)
	assert.Equal(t, StatusPaused, p.Statut)

	mockRepo.On("GetProjectByID", mock.Anything, id).Return(paused, nil).Once()
	mockRepo.On("SetProjectStatus", mock.Anything, id, StatusOngoing).Return(ongoing, nil)

	p, err = service.SetStatus(context.Background(), id, StatusOngoing)
	assert.NoError(t, err)
	assert.Equal(t, StatusOngoing, p.Statut)
}

func TestFinishedProjectCannotResume(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetProjectByID", mock.Anything, id).
		Return(&Project{ID: id, Statut: StatusFinished}, nil)

	_, err := service.SetStatus(context.Background(), id, StatusOngoing)

	var invalid *workflows.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
	mockRepo.AssertNotCalled(t, "SetProjectStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPausedProjectCannotFinishDirectly(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetProjectByID", mock.Anything, id).
		Return(&Project{ID: id, Statut: StatusPaused}, nil)

	_, err := service.SetStatus(context.Background(), id, StatusFinished)

	var invalid *workflows.InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)
}

func TestUpdateProgressionBounds(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetProjectByID", mock.Anything, id).
		Return(&Project{ID: id, Statut: StatusOngoing}, nil)

	bad := 130
	_, err := service.Update(context.Background(), id, UpdateProjectRequest{Progression: &bad})
	assert.Error(t, err)

	good := 65
	mockRepo.On("UpdateProject", mock.Anything, mock.Anything).Return(nil)
	p, err := service.Update(context.Background(), id, UpdateProjectRequest{Progression: &good})
	assert.NoError(t, err)
	assert.Equal(t, 65, p.Progression)
}
