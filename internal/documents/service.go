package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visio-hr/hr-portal-backend/pkg/storage"
)

var ErrNotFound = errors.New("document not found")

type UploadRequest struct {
	Nom         string
	Type        DocumentType
	Departement string
	FileName    string
	ContentType string
	Taille      int64
	Content     io.Reader
	UploadedBy  uuid.UUID
}

type Service struct {
	repo   Repository
	store  storage.S3Client
	bucket string
	logger *zap.Logger
}

func NewService(repo Repository, store storage.S3Client, bucket string, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		bucket: bucket,
		logger: logger,
	}
}

// Upload stores the file bytes first, then the metadata row. An orphaned
// object from a failed insert is harmless; a row without its object is not.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*Document, error) {
	id := uuid.New()
	key := fmt.Sprintf("%s/%s/%s_%s", req.Departement, codeScope(req.Type), id.String(), req.FileName)

	if err := s.store.Upload(ctx, s.bucket, key, req.Content); err != nil {
		return nil, err
	}

	d := &Document{
		ID:          id,
		Nom:         req.Nom,
		Type:        req.Type,
		Departement: req.Departement,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Taille:      req.Taille,
		StorageKey:  key,
		UploadedBy:  req.UploadedBy,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		if delErr := s.store.Delete(ctx, s.bucket, key); delErr != nil {
			s.logger.Warn("failed to clean up orphaned object",
				zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	s.logger.Info("document uploaded",
		zap.String("code", d.Code),
		zap.String("type", string(d.Type)),
		zap.Int64("taille", d.Taille))
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Document, int, error) {
	return s.repo.ListDocuments(ctx, filter)
}

func (s *Service) Download(ctx context.Context, id uuid.UUID) (*Document, io.ReadCloser, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.store.Download(ctx, s.bucket, d.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return d, body, nil
}

// DownloadURL returns a short-lived presigned link so large files bypass the
// API server.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.GetPresignedURL(ctx, s.bucket, d.StorageKey, 15*time.Minute)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, s.bucket, d.StorageKey); err != nil {
		s.logger.Warn("document row deleted but object removal failed",
			zap.String("key", d.StorageKey), zap.Error(err))
	}
	return nil
}
