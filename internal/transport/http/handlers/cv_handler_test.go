package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
	cvsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type cvHandlerStore struct {
	byUserID map[int64]model.CV
}

func (s *cvHandlerStore) GetByUserID(_ context.Context, userID int64) (model.CV, error) {
	doc, ok := s.byUserID[userID]
	if !ok {
		return model.CV{}, pgrepo.ErrCVNotFound
	}
	return doc, nil
}

func (s *cvHandlerStore) Upsert(_ context.Context, doc model.CV) (model.CV, error) {
	s.byUserID[doc.UserID] = doc
	return doc, nil
}

func newCVTestRouter(store *cvHandlerStore, identity authsvc.Identity) http.Handler {
	handler := NewCVHandler(cvsvc.NewService(store))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authsvc.WithIdentity(req.Context(), identity)))
		})
	})
	r.Get("/users/{user_id}/cv", handler.GetByUser)
	r.Delete("/cv/experiences/{index}", handler.RemoveExperience)
	return r
}

func TestCVGetByUserPrivateReadsAsNull(t *testing.T) {
	store := &cvHandlerStore{byUserID: map[int64]model.CV{
		7: {ID: 1, UserID: 7, FirstName: "Jean"},
	}}
	router := newCVTestRouter(store, authsvc.Identity{UserID: 8, SID: "sid-8", Role: "USER"})

	req := httptest.NewRequest(http.MethodGet, "/users/7/cv", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "null" {
		t.Fatalf("private CV should read as null, got %s", body)
	}
}

func TestCVGetByUserMissingReadsAsNull(t *testing.T) {
	store := &cvHandlerStore{byUserID: map[int64]model.CV{}}
	router := newCVTestRouter(store, authsvc.Identity{UserID: 8, SID: "sid-8", Role: "USER"})

	req := httptest.NewRequest(http.MethodGet, "/users/7/cv", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "null" {
		t.Fatalf("missing CV should read as null, got %s", body)
	}
}

func TestCVRemoveNegativeIndexIsInvalidArgument(t *testing.T) {
	store := &cvHandlerStore{byUserID: map[int64]model.CV{
		42: {ID: 1, UserID: 42, Experiences: []model.Experience{{Title: "Dev", Company: "Okatech"}}},
	}}
	router := newCVTestRouter(store, authsvc.Identity{UserID: 42, SID: "sid-42", Role: "USER"})

	req := httptest.NewRequest(http.MethodDelete, "/cv/experiences/-1", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var apiErr httperrors.APIError
	if err := json.Unmarshal(rr.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "INVALID_ARGUMENT" {
		t.Fatalf("unexpected code: got %s want INVALID_ARGUMENT", apiErr.Code)
	}
}
