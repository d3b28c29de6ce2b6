package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateDocument(ctx context.Context, d *Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockRepository) ListDocuments(ctx context.Context, filter Filter) ([]Document, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]Document), args.Int(1), args.Error(2)
}

func (m *MockRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeStore keeps objects in memory.
type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, bucket, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) Delete(ctx context.Context, bucket, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) GetPresignedURL(ctx context.Context, bucket, key string, expiration time.Duration) (string, error) {
	return "https://store.local/" + bucket + "/" + key, nil
}

func TestUploadStoresObjectAndMetadata(t *testing.T) {
	mockRepo := new(MockRepository)
	store := newFakeStore()
	service := NewService(mockRepo, store, "docs", zap.NewNop())

	mockRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("*documents.Document")).
		Run(func(args mock.Arguments) {
			d := args.Get(1).(*Document)
			d.Code = "DOC-DEVIS-2026-001"
		}).Return(nil)

	d, err := service.Upload(context.Background(), UploadRequest{
		Nom:         "Devis chantier A",
		Type:        DocQuote,
		Departement: "Engineering",
		FileName:    "devis.pdf",
		ContentType: "application/pdf",
		Taille:      11,
		Content:     strings.NewReader("pdf content"),
		UploadedBy:  uuid.New(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "DOC-DEVIS-2026-001", d.Code)
	assert.Contains(t, store.objects, d.StorageKey)
	assert.Equal(t, []byte("pdf content"), store.objects[d.StorageKey])
}

func TestUploadCleansUpOnInsertFailure(t *testing.T) {
	mockRepo := new(MockRepository)
	store := newFakeStore()
	service := NewService(mockRepo, store, "docs", zap.NewNop())

	mockRepo.On("CreateDocument", mock.Anything, mock.Anything).
		Return(errors.New("insert failed"))

	_, err := service.Upload(context.Background(), UploadRequest{
		Nom:      "Broken",
		Type:     DocOther,
		FileName: "x.bin",
		Content:  strings.NewReader("bytes"),
	})

	assert.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestDownloadRoundTrip(t *testing.T) {
	mockRepo := new(MockRepository)
	store := newFakeStore()
	service := NewService(mockRepo, store, "docs", zap.NewNop())

	id := uuid.New()
	store.objects["hr/ADMIN/contract.pdf"] = []byte("contract bytes")
	mockRepo.On("GetDocumentByID", mock.Anything, id).Return(&Document{
		ID:         id,
		FileName:   "contract.pdf",
		StorageKey: "hr/ADMIN/contract.pdf",
	}, nil)

	d, body, err := service.Download(context.Background(), id)
	assert.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Equal(t, "contract.pdf", d.FileName)
	assert.Equal(t, []byte("contract bytes"), data)
}

func TestGetUnknownDocument(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, newFakeStore(), "docs", zap.NewNop())

	id := uuid.New()
	mockRepo.On("GetDocumentByID", mock.Anything, id).Return(nil, nil)

	_, err := service.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRemovesRowAndObject(t *testing.T) {
	mockRepo := new(MockRepository)
	store := newFakeStore()
	service := NewService(mockRepo, store, "docs", zap.NewNop())

	id := uuid.New()
	store.objects["hr/AUTRE/old.txt"] = []byte("old")
	mockRepo.On("GetDocumentByID", mock.Anything, id).Return(&Document{
		ID:         id,
		StorageKey: "hr/AUTRE/old.txt",
	}, nil)
	mockRepo.On("DeleteDocument", mock.Anything, id).Return(nil)

	err := service.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.Empty(t, store.objects)
	mockRepo.AssertExpectations(t)
}

func TestCodeScopePerType(t *testing.T) {
	assert.Equal(t, "DEVIS", codeScope(DocQuote))
	assert.Equal(t, "TECH", codeScope(DocTechnical))
	assert.Equal(t, "ADMIN", codeScope(DocAdministrative))
	assert.Equal(t, "AUTRE", codeScope(DocOther))
	assert.Equal(t, "AUTRE", codeScope(DocumentType("unknown")))
}
