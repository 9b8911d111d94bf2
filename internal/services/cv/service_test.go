package cv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
)

type fakeCVStore struct {
	nextID   int64
	byUserID map[int64]model.CV
}

func newFakeCVStore() *fakeCVStore {
	return &fakeCVStore{byUserID: map[int64]model.CV{}}
}

func (s *fakeCVStore) GetByUserID(_ context.Context, userID int64) (model.CV, error) {
	doc, ok := s.byUserID[userID]
	if !ok {
		return model.CV{}, pgrepo.ErrCVNotFound
	}
	return doc, nil
}

func (s *fakeCVStore) Upsert(_ context.Context, doc model.CV) (model.CV, error) {
	if existing, ok := s.byUserID[doc.UserID]; ok {
		doc.ID = existing.ID
	} else {
		s.nextID++
		doc.ID = s.nextID
	}
	doc.UpdatedAt = time.Now().UTC()
	s.byUserID[doc.UserID] = doc
	return doc, nil
}

func TestGetMineMissingStaysNotFound(t *testing.T) {
	svc := cv.NewService(newFakeCVStore())

	if _, err := svc.GetMine(context.Background(), 7); !errors.Is(err, pgrepo.ErrCVNotFound) {
		t.Fatalf("reads must not create a CV, got %v", err)
	}
}

func TestUpdateBasicsCreatesLazily(t *testing.T) {
	store := newFakeCVStore()
	svc := cv.NewService(store)

	doc, err := svc.UpdateBasics(context.Background(), 7, cv.BasicsInput{
		FirstName: "Jean",
		LastName:  "Ndong",
		Title:     "Ingénieur logiciel",
		Email:     "jean@example.com",
	})
	if err != nil {
		t.Fatalf("update basics: %v", err)
	}
	if doc.ID == 0 || doc.UserID != 7 {
		t.Fatalf("first write should create the CV: %+v", doc)
	}
	if doc.IsPublic {
		t.Fatalf("new CV must start private")
	}

	if _, err := svc.UpdateBasics(context.Background(), 7, cv.BasicsInput{Email: "nope"}); !errors.Is(err, cv.ErrValidation) {
		t.Fatalf("malformed email should be rejected, got %v", err)
	}
}

func TestExperienceIndexAddressing(t *testing.T) {
	store := newFakeCVStore()
	svc := cv.NewService(store)
	ctx := context.Background()

	for _, title := range []string{"Dev", "Lead", "CTO"} {
		if _, err := svc.AddExperience(ctx, 7, model.Experience{Title: title, Company: "Okatech"}); err != nil {
			t.Fatalf("add experience %q: %v", title, err)
		}
	}

	doc, err := svc.UpdateExperience(ctx, 7, 1, model.Experience{Title: "Tech Lead", Company: "Okatech"})
	if err != nil {
		t.Fatalf("update experience: %v", err)
	}
	if doc.Experiences[1].Title != "Tech Lead" {
		t.Fatalf("update addressed wrong item: %+v", doc.Experiences)
	}

	doc, err = svc.RemoveExperience(ctx, 7, 0)
	if err != nil {
		t.Fatalf("remove experience: %v", err)
	}
	if len(doc.Experiences) != 2 || doc.Experiences[0].Title != "Tech Lead" {
		t.Fatalf("removal must preserve order of the rest: %+v", doc.Experiences)
	}

	if _, err := svc.UpdateExperience(ctx, 7, 5, model.Experience{Title: "X", Company: "Y"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("out of range index should be invalid argument, got %v", err)
	}
	if _, err := svc.RemoveExperience(ctx, 7, -1); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("negative index should be invalid argument, got %v", err)
	}
}

func TestSkillNamesUniqueCaseInsensitive(t *testing.T) {
	svc := cv.NewService(newFakeCVStore())
	ctx := context.Background()

	if _, err := svc.AddSkill(ctx, 7, model.Skill{Name: "Go", Level: enums.SkillLevelAdvanced}); err != nil {
		t.Fatalf("add skill: %v", err)
	}
	if _, err := svc.AddSkill(ctx, 7, model.Skill{Name: "go"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("duplicate name should be rejected case-insensitively, got %v", err)
	}

	if _, err := svc.AddSkill(ctx, 7, model.Skill{Name: "SQL", Level: "guru"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("unknown level should be rejected, got %v", err)
	}

	// Renaming a skill onto its own slot is fine, onto another's name is not.
	if _, err := svc.AddSkill(ctx, 7, model.Skill{Name: "SQL"}); err != nil {
		t.Fatalf("add second skill: %v", err)
	}
	if _, err := svc.UpdateSkill(ctx, 7, 0, model.Skill{Name: "GO", Level: enums.SkillLevelExpert}); err != nil {
		t.Fatalf("self rename should pass: %v", err)
	}
	if _, err := svc.UpdateSkill(ctx, 7, 1, model.Skill{Name: "go"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("rename onto existing skill should fail, got %v", err)
	}
}

func TestLanguageLevels(t *testing.T) {
	svc := cv.NewService(newFakeCVStore())
	ctx := context.Background()

	if _, err := svc.AddLanguage(ctx, 7, model.Language{Name: "Français", Level: enums.LanguageLevelNative}); err != nil {
		t.Fatalf("add language: %v", err)
	}
	if _, err := svc.AddLanguage(ctx, 7, model.Language{Name: "English", Level: "fluent"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("unknown level should be rejected, got %v", err)
	}
	if _, err := svc.AddLanguage(ctx, 7, model.Language{Name: "FRANÇAIS"}); !errors.Is(err, cv.ErrInvalidArgument) {
		t.Fatalf("duplicate language should be rejected, got %v", err)
	}
}

func TestVisibilityGate(t *testing.T) {
	store := newFakeCVStore()
	svc := cv.NewService(store)
	ctx := context.Background()

	if _, err := svc.UpdateBasics(ctx, 7, cv.BasicsInput{FirstName: "Jean"}); err != nil {
		t.Fatalf("seed cv: %v", err)
	}

	if _, err := svc.Get(ctx, 8, string(enums.RoleUser), 7); !errors.Is(err, pgrepo.ErrCVNotFound) {
		t.Fatalf("private CV should read as absent to others, got %v", err)
	}
	if _, err := svc.Get(ctx, 7, string(enums.RoleUser), 7); err != nil {
		t.Fatalf("owner read should pass: %v", err)
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleAdmin), 7); err != nil {
		t.Fatalf("staff read should pass: %v", err)
	}

	doc, err := svc.ToggleVisibility(ctx, 7)
	if err != nil {
		t.Fatalf("toggle visibility: %v", err)
	}
	if !doc.IsPublic {
		t.Fatalf("toggle should flip to public")
	}
	if _, err := svc.Get(ctx, 8, string(enums.RoleUser), 7); err != nil {
		t.Fatalf("public CV should be readable by anyone: %v", err)
	}
}
