package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
	profilesvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
)

type profileHandlerStore struct {
	nextID   int64
	byUserID map[int64]model.Profile
}

func (s *profileHandlerStore) GetByUserID(_ context.Context, userID int64) (model.Profile, error) {
	p, ok := s.byUserID[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

func (s *profileHandlerStore) GetByID(_ context.Context, id int64) (model.Profile, error) {
	for _, p := range s.byUserID {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Profile{}, pgrepo.ErrProfileNotFound
}

func (s *profileHandlerStore) UpsertWithEvent(_ context.Context, p model.Profile, _ model.Event) (model.Profile, error) {
	if existing, ok := s.byUserID[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		s.nextID++
		p.ID = s.nextID
	}
	s.byUserID[p.UserID] = p
	return p, nil
}

func (s *profileHandlerStore) SaveWithEvent(_ context.Context, p model.Profile, _ model.Event) (model.Profile, error) {
	s.byUserID[p.UserID] = p
	return p, nil
}

func newProfileTestRouter(store *profileHandlerStore, identity authsvc.Identity) http.Handler {
	handler := NewProfileHandler(profilesvc.NewService(store))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authsvc.WithIdentity(req.Context(), identity)))
		})
	})
	r.Get("/profiles", handler.GetMine)
	r.Put("/profiles", handler.Upsert)
	return r
}

func TestProfilesGetMineMissingIsNull(t *testing.T) {
	store := &profileHandlerStore{byUserID: map[int64]model.Profile{}}
	router := newProfileTestRouter(store, authsvc.Identity{UserID: 7, SID: "sid-7", Role: "USER"})

	req := httptest.NewRequest(http.MethodGet, "/profiles", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "null" {
		t.Fatalf("missing profile should read as null, got %s", body)
	}
}

func TestProfilesUpsertPartialBodyKeepsStoredSections(t *testing.T) {
	store := &profileHandlerStore{byUserID: map[int64]model.Profile{
		7: {
			ID:           1,
			UserID:       7,
			ProfileType:  enums.ProfileTypeLongStay,
			Status:       enums.ProfileStatusActive,
			Identity:     model.Identity{FirstName: "Jean", LastName: "Ndong"},
			PassportInfo: model.PassportInfo{Number: "GA1234567"},
			Contacts:     model.Contacts{Phone: "+24101020304", Email: "jean@example.com"},
		},
	}}
	router := newProfileTestRouter(store, authsvc.Identity{UserID: 7, SID: "sid-7", Role: "USER"})

	body := strings.NewReader(`{"identity": {"first_name": "Pierre", "last_name": "Ndong"}}`)
	req := httptest.NewRequest(http.MethodPut, "/profiles", body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var updated model.Profile
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Identity.FirstName != "Pierre" {
		t.Fatalf("identity section not applied: %q", updated.Identity.FirstName)
	}
	if updated.PassportInfo.Number != "GA1234567" {
		t.Fatalf("absent passport section wiped stored passport: %q", updated.PassportInfo.Number)
	}
	if updated.Contacts.Email != "jean@example.com" {
		t.Fatalf("absent contacts section wiped stored contacts: %+v", updated.Contacts)
	}
}
