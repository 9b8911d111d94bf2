package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
)

var ErrValidation = errors.New("validation error")

const (
	signedURLTTL = 5 * time.Minute
	maxSizeBytes = 20 << 20
)

type Store interface {
	Insert(ctx context.Context, d model.Document) (model.Document, error)
	GetByID(ctx context.Context, id int64) (model.Document, error)
	ListByOwner(ctx context.Context, ownerUserID int64) ([]model.Document, error)
	Delete(ctx context.Context, id int64) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service stores uploaded files in object storage and their metadata rows
// in postgres. Reads hand out short-lived presigned URLs, never raw keys.
type Service struct {
	store   Store
	storage ObjectStorage
	now     func() time.Time
}

func NewService(store Store, storage ObjectStorage) *Service {
	return &Service{
		store:   store,
		storage: storage,
		now:     time.Now,
	}
}

type UploadInput struct {
	DocType     enums.DocumentType
	FileName    string
	ContentType string
	Body        io.Reader
	Size        int64
}

func (s *Service) Upload(ctx context.Context, ownerID int64, in UploadInput) (model.Document, error) {
	if ownerID <= 0 || in.Body == nil || in.Size <= 0 {
		return model.Document{}, ErrValidation
	}
	if in.Size > maxSizeBytes {
		return model.Document{}, fmt.Errorf("file exceeds %d bytes: %w", int64(maxSizeBytes), ErrValidation)
	}
	if strings.TrimSpace(string(in.DocType)) == "" {
		return model.Document{}, fmt.Errorf("document type is required: %w", ErrValidation)
	}
	if s.store == nil || s.storage == nil {
		return model.Document{}, fmt.Errorf("document dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return model.Document{}, fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildObjectKey(ownerID, in.FileName)

	contentType := strings.TrimSpace(in.ContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.Put(ctx, objectKey, in.Body, in.Size, contentType); err != nil {
		return model.Document{}, fmt.Errorf("put object: %w", err)
	}

	saved, err := s.store.Insert(ctx, model.Document{
		OwnerUserID: ownerID,
		DocType:     in.DocType,
		FileName:    strings.TrimSpace(in.FileName),
		ContentType: contentType,
		SizeBytes:   in.Size,
		ObjectKey:   objectKey,
	})
	if err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return model.Document{}, fmt.Errorf("create document record: %w", err)
	}

	return saved, nil
}

func (s *Service) ListMine(ctx context.Context, callerID int64) ([]model.Document, error) {
	if callerID <= 0 {
		return nil, ErrValidation
	}
	return s.store.ListByOwner(ctx, callerID)
}

// DownloadURL presigns a GET for the document. Owners and staff only.
func (s *Service) DownloadURL(ctx context.Context, callerID int64, callerRole string, documentID int64) (string, error) {
	d, err := s.loadVisible(ctx, callerID, callerRole, documentID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.PresignGet(ctx, d.ObjectKey, signedURLTTL)
	if err != nil {
		return "", fmt.Errorf("presign document url: %w", err)
	}
	return url, nil
}

// Remove deletes the metadata row first, then the object. A dangling
// object is harmless; a dangling row pointing at nothing is not.
func (s *Service) Remove(ctx context.Context, callerID int64, callerRole string, documentID int64) error {
	d, err := s.loadVisible(ctx, callerID, callerRole, documentID)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, d.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, d.ObjectKey); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

func (s *Service) loadVisible(ctx context.Context, callerID int64, callerRole string, documentID int64) (model.Document, error) {
	d, err := s.store.GetByID(ctx, documentID)
	if err != nil {
		return model.Document{}, err
	}

	if !rules.IsStaff(callerRole) {
		if err := rules.RequireOwner(d.OwnerUserID, callerID); err != nil {
			return model.Document{}, err
		}
	}

	return d, nil
}

func buildObjectKey(ownerID int64, fileName string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("users/%d/documents/%s%s", ownerID, uuid.NewString(), ext)
}
