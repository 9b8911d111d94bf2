package documents_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/documents"
)

type fakeDocStore struct {
	nextID int64
	byID   map[int64]model.Document
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{byID: map[int64]model.Document{}}
}

func (s *fakeDocStore) Insert(_ context.Context, d model.Document) (model.Document, error) {
	s.nextID++
	d.ID = s.nextID
	d.CreatedAt = time.Now().UTC()
	s.byID[d.ID] = d
	return d, nil
}

func (s *fakeDocStore) GetByID(_ context.Context, id int64) (model.Document, error) {
	d, ok := s.byID[id]
	if !ok {
		return model.Document{}, pgrepo.ErrDocumentNotFound
	}
	return d, nil
}

func (s *fakeDocStore) ListByOwner(_ context.Context, ownerUserID int64) ([]model.Document, error) {
	var out []model.Document
	for _, d := range s.byID {
		if d.OwnerUserID == ownerUserID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *fakeDocStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return pgrepo.ErrDocumentNotFound
	}
	delete(s.byID, id)
	return nil
}

type fakeObjectStorage struct {
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: map[string][]byte{}}
}

func (s *fakeObjectStorage) EnsureBucket(context.Context) error { return nil }

func (s *fakeObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("object missing")
	}
	return "https://s3.local/" + key + "?signed=1", nil
}

func (s *fakeObjectStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func uploadInput() documents.UploadInput {
	body := "PDFDATA"
	return documents.UploadInput{
		DocType:     enums.DocumentType("passport"),
		FileName:    "passport.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader(body),
		Size:        int64(len(body)),
	}
}

func TestUploadStoresObjectAndRow(t *testing.T) {
	store := newFakeDocStore()
	storage := newFakeObjectStorage()
	svc := documents.NewService(store, storage)

	d, err := svc.Upload(context.Background(), 7, uploadInput())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if d.ID == 0 || d.OwnerUserID != 7 {
		t.Fatalf("unexpected document: %+v", d)
	}
	if !strings.HasPrefix(d.ObjectKey, "users/7/documents/") || !strings.HasSuffix(d.ObjectKey, ".pdf") {
		t.Fatalf("unexpected object key: %q", d.ObjectKey)
	}
	if _, ok := storage.objects[d.ObjectKey]; !ok {
		t.Fatalf("object not stored")
	}
}

func TestUploadValidation(t *testing.T) {
	svc := documents.NewService(newFakeDocStore(), newFakeObjectStorage())
	ctx := context.Background()

	in := uploadInput()
	in.Size = 0
	if _, err := svc.Upload(ctx, 7, in); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("zero size should be rejected, got %v", err)
	}

	in = uploadInput()
	in.DocType = "  "
	if _, err := svc.Upload(ctx, 7, in); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("blank doc type should be rejected, got %v", err)
	}

	in = uploadInput()
	in.Size = 21 << 20
	if _, err := svc.Upload(ctx, 7, in); !errors.Is(err, documents.ErrValidation) {
		t.Fatalf("oversized file should be rejected, got %v", err)
	}
}

func TestUploadCleansUpObjectWhenRowFails(t *testing.T) {
	storage := newFakeObjectStorage()
	svc := documents.NewService(failingDocStore{}, storage)

	if _, err := svc.Upload(context.Background(), 7, uploadInput()); err == nil {
		t.Fatalf("expected insert failure")
	}
	if len(storage.objects) != 0 {
		t.Fatalf("orphan object left behind: %v", storage.objects)
	}
}

type failingDocStore struct{}

func (failingDocStore) Insert(context.Context, model.Document) (model.Document, error) {
	return model.Document{}, errors.New("insert failed")
}
func (failingDocStore) GetByID(context.Context, int64) (model.Document, error) {
	return model.Document{}, pgrepo.ErrDocumentNotFound
}
func (failingDocStore) ListByOwner(context.Context, int64) ([]model.Document, error) {
	return nil, nil
}
func (failingDocStore) Delete(context.Context, int64) error { return nil }

func TestDownloadURLOwnershipGate(t *testing.T) {
	store := newFakeDocStore()
	storage := newFakeObjectStorage()
	svc := documents.NewService(store, storage)
	ctx := context.Background()

	d, err := svc.Upload(ctx, 7, uploadInput())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	url, err := svc.DownloadURL(ctx, 7, string(enums.RoleUser), d.ID)
	if err != nil || !strings.Contains(url, "signed=1") {
		t.Fatalf("owner download: %q, %v", url, err)
	}
	if _, err := svc.DownloadURL(ctx, 8, string(enums.RoleUser), d.ID); !errors.Is(err, rules.ErrForbidden) {
		t.Fatalf("non-owner download should be forbidden, got %v", err)
	}
	if _, err := svc.DownloadURL(ctx, 8, string(enums.RoleAgent), d.ID); err != nil {
		t.Fatalf("staff download should pass: %v", err)
	}
	if _, err := svc.DownloadURL(ctx, 7, string(enums.RoleUser), 999); !errors.Is(err, pgrepo.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveDeletesRowAndObject(t *testing.T) {
	store := newFakeDocStore()
	storage := newFakeObjectStorage()
	svc := documents.NewService(store, storage)
	ctx := context.Background()

	d, err := svc.Upload(ctx, 7, uploadInput())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Remove(ctx, 8, string(enums.RoleUser), d.ID); !errors.Is(err, rules.ErrForbidden) {
		t.Fatalf("non-owner remove should be forbidden, got %v", err)
	}
	if err := svc.Remove(ctx, 7, string(enums.RoleUser), d.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(store.byID) != 0 || len(storage.objects) != 0 {
		t.Fatalf("row or object survived removal")
	}
	if err := svc.Remove(ctx, 7, string(enums.RoleUser), d.ID); !errors.Is(err, pgrepo.ErrDocumentNotFound) {
		t.Fatalf("second remove should be not found, got %v", err)
	}
}
