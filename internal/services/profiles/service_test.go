package profiles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
)

type fakeProfileStore struct {
	nextID   int64
	byUserID map[int64]model.Profile
	events   []model.Event
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{byUserID: map[int64]model.Profile{}}
}

func (s *fakeProfileStore) GetByUserID(_ context.Context, userID int64) (model.Profile, error) {
	p, ok := s.byUserID[userID]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

func (s *fakeProfileStore) GetByID(_ context.Context, id int64) (model.Profile, error) {
	for _, p := range s.byUserID {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Profile{}, pgrepo.ErrProfileNotFound
}

func (s *fakeProfileStore) UpsertWithEvent(_ context.Context, p model.Profile, e model.Event) (model.Profile, error) {
	if existing, ok := s.byUserID[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		s.nextID++
		p.ID = s.nextID
		p.CreatedAt = time.Now().UTC()
	}
	p.UpdatedAt = time.Now().UTC()
	s.byUserID[p.UserID] = p

	e.Target = model.EventTarget{Type: enums.EventTargetProfile, ID: p.ID}
	s.events = append(s.events, e)
	return p, nil
}

func (s *fakeProfileStore) SaveWithEvent(_ context.Context, p model.Profile, e model.Event) (model.Profile, error) {
	existing, ok := s.byUserID[p.UserID]
	if !ok || existing.ID != p.ID {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	s.byUserID[p.UserID] = p

	e.Target = model.EventTarget{Type: enums.EventTargetProfile, ID: p.ID}
	s.events = append(s.events, e)
	return p, nil
}

func upsertInput() profiles.UpsertInput {
	birth := time.Date(1985, 3, 2, 0, 0, 0, 0, time.UTC)
	return profiles.UpsertInput{
		ProfileType: enums.ProfileTypeLongStay,
		Identity: &model.Identity{
			FirstName:   "Jean",
			LastName:    "Ndong",
			BirthDate:   &birth,
			BirthPlace:  "Libreville",
			Gender:      enums.GenderMale,
			Nationality: "GA",
		},
		PassportInfo: &model.PassportInfo{Number: "GA1234567"},
		Contacts:     &model.Contacts{Phone: "+24101020304", Email: "jean@example.com"},
	}
}

func TestUpsertCreatesThenUpdates(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, 7, upsertInput())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if created.ID == 0 || created.UserID != 7 {
		t.Fatalf("unexpected created profile: %+v", created)
	}
	if created.CompletionScore <= 0 || created.CompletionScore > 100 {
		t.Fatalf("score not derived: %d", created.CompletionScore)
	}
	if store.events[0].Type != enums.EventProfileCreated {
		t.Fatalf("first write should log profile_created, got %s", store.events[0].Type)
	}

	again, err := svc.Upsert(ctx, 7, upsertInput())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("upsert must keep the profile row: %d vs %d", again.ID, created.ID)
	}
	if store.events[1].Type != enums.EventProfileUpdate {
		t.Fatalf("second write should log profile_update, got %s", store.events[1].Type)
	}
}

func TestUpsertPartialPayloadKeepsStoredSections(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 7, upsertInput()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	patched, err := svc.Upsert(ctx, 7, profiles.UpsertInput{
		Identity: &model.Identity{FirstName: "Pierre", LastName: "Ndong"},
	})
	if err != nil {
		t.Fatalf("partial upsert: %v", err)
	}
	if patched.Identity.FirstName != "Pierre" {
		t.Fatalf("provided section should replace the stored one, got %q", patched.Identity.FirstName)
	}
	if patched.PassportInfo.Number != "GA1234567" {
		t.Fatalf("absent passport section wiped stored passport: %q", patched.PassportInfo.Number)
	}
	if patched.Contacts.Email != "jean@example.com" || patched.Contacts.Phone != "+24101020304" {
		t.Fatalf("absent contacts section wiped stored contacts: %+v", patched.Contacts)
	}
	if patched.ProfileType != enums.ProfileTypeLongStay {
		t.Fatalf("absent profile type should keep stored value, got %q", patched.ProfileType)
	}
}

func TestUpsertRejectsUnknownType(t *testing.T) {
	svc := profiles.NewService(newFakeProfileStore())

	in := upsertInput()
	in.ProfileType = "weekend_visa"
	if _, err := svc.Upsert(context.Background(), 7, in); !errors.Is(err, profiles.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateSectionMergesAndRescores(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	before, err := svc.Upsert(ctx, 7, upsertInput())
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	updated, err := svc.UpdateSection(ctx, 7, profiles.SectionIdentity, map[string]any{
		"first_name": "Pierre",
	})
	if err != nil {
		t.Fatalf("update section: %v", err)
	}

	if updated.Identity.FirstName != "Pierre" {
		t.Fatalf("payload field should win, got %q", updated.Identity.FirstName)
	}
	if updated.Identity.LastName != "Ndong" {
		t.Fatalf("absent field should keep stored value, got %q", updated.Identity.LastName)
	}
	if updated.CompletionScore != before.CompletionScore {
		t.Fatalf("renaming a filled field must not change the score: %d vs %d", updated.CompletionScore, before.CompletionScore)
	}

	last := store.events[len(store.events)-1]
	if last.Type != enums.EventProfileUpdate || last.Data["section"] != profiles.SectionIdentity {
		t.Fatalf("unexpected audit event: %+v", last)
	}
}

func TestUpdateSectionRaisesScoreWhenFieldFilled(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	in := upsertInput()
	in.Contacts.Email = ""
	before, err := svc.Upsert(ctx, 7, in)
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	updated, err := svc.UpdateSection(ctx, 7, profiles.SectionContacts, map[string]any{
		"email": "jean@example.com",
	})
	if err != nil {
		t.Fatalf("update section: %v", err)
	}
	if updated.CompletionScore <= before.CompletionScore {
		t.Fatalf("filling a field should raise the score: %d -> %d", before.CompletionScore, updated.CompletionScore)
	}
}

func TestUpdateSectionUnknownName(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 7, upsertInput()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	_, err := svc.UpdateSection(ctx, 7, "preferences", map[string]any{"k": "v"})
	if !errors.Is(err, profiles.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdateSectionMissingProfile(t *testing.T) {
	svc := profiles.NewService(newFakeProfileStore())

	_, err := svc.UpdateSection(context.Background(), 7, profiles.SectionIdentity, map[string]any{"first_name": "X"})
	if !errors.Is(err, pgrepo.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAddDocumentIdempotent(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 7, upsertInput()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	eventsBefore := len(store.events)

	first, err := svc.AddDocument(ctx, 7, "passport", 42)
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if len(first.Documents["passport"]) != 1 {
		t.Fatalf("document not linked: %+v", first.Documents)
	}

	second, err := svc.AddDocument(ctx, 7, "passport", 42)
	if err != nil {
		t.Fatalf("repeat add document: %v", err)
	}
	if len(second.Documents["passport"]) != 1 {
		t.Fatalf("duplicate link appended: %+v", second.Documents)
	}
	if len(store.events) != eventsBefore+1 {
		t.Fatalf("no-op add must not log an event, got %d new events", len(store.events)-eventsBefore)
	}
}

func TestRemoveDocument(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 7, upsertInput()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if _, err := svc.AddDocument(ctx, 7, "passport", 42); err != nil {
		t.Fatalf("add document: %v", err)
	}

	removed, err := svc.RemoveDocument(ctx, 7, "passport", 42)
	if err != nil {
		t.Fatalf("remove document: %v", err)
	}
	if _, ok := removed.Documents["passport"]; ok {
		t.Fatalf("empty type key should be dropped: %+v", removed.Documents)
	}

	eventsBefore := len(store.events)
	if _, err := svc.RemoveDocument(ctx, 7, "passport", 42); err != nil {
		t.Fatalf("repeat remove document: %v", err)
	}
	if len(store.events) != eventsBefore {
		t.Fatalf("no-op remove must not log an event")
	}
}

func TestGetOwnershipGate(t *testing.T) {
	store := newFakeProfileStore()
	svc := profiles.NewService(store)
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, 7, upsertInput()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	if _, err := svc.Get(ctx, 7, string(enums.RoleUser), 7); err != nil {
		t.Fatalf("owner read should pass: %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleUser), 7); !errors.Is(err, rules.ErrForbidden) {
		t.Fatalf("non-owner read should be forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleAgent), 7); err != nil {
		t.Fatalf("staff read should pass: %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleAgent), 99); !errors.Is(err, pgrepo.ErrProfileNotFound) {
		t.Fatalf("absence reported before ownership, got %v", err)
	}
}
