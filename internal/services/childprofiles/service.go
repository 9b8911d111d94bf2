package childprofiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type ChildStore interface {
	GetByID(ctx context.Context, id int64) (model.ChildProfile, error)
	ListByAuthor(ctx context.Context, authorUserID int64) ([]model.ChildProfile, error)
	CreateWithEvent(ctx context.Context, cp model.ChildProfile, e model.Event) (model.ChildProfile, error)
	SaveWithEvent(ctx context.Context, cp model.ChildProfile, e model.Event) (model.ChildProfile, error)
}

type Service struct {
	store ChildStore
	now   func() time.Time
}

func NewService(store ChildStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

type CreateInput struct {
	Identity           model.Identity
	CountryOfResidence string
	NIPCode            string
	Parents            []model.ParentInfo
}

// Create opens a draft child profile authored by the caller. The author is
// fixed at creation and is the only principal allowed to mutate it.
func (s *Service) Create(ctx context.Context, callerID int64, in CreateInput) (model.ChildProfile, error) {
	if callerID <= 0 {
		return model.ChildProfile{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	if strings.TrimSpace(in.Identity.FirstName) == "" || strings.TrimSpace(in.Identity.LastName) == "" {
		return model.ChildProfile{}, fmt.Errorf("child first and last name are required: %w", ErrValidation)
	}
	if err := validateParents(in.Parents); err != nil {
		return model.ChildProfile{}, err
	}

	cp := model.ChildProfile{
		AuthorUserID:       callerID,
		Status:             enums.ChildProfileStatusDraft,
		Identity:           in.Identity,
		CountryOfResidence: strings.TrimSpace(in.CountryOfResidence),
		NIPCode:            strings.TrimSpace(in.NIPCode),
		Parents:            in.Parents,
	}

	return s.store.CreateWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileCreated,
		Data:    map[string]any{"status": string(enums.ChildProfileStatusDraft)},
	})
}

// Get returns a child profile. The author sees their own; staff see any.
// Absence is reported before the ownership check.
func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, id int64) (model.ChildProfile, error) {
	cp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	if !rules.IsStaff(callerRole) {
		if err := rules.RequireOwner(cp.AuthorUserID, callerID); err != nil {
			return model.ChildProfile{}, err
		}
	}

	return cp, nil
}

func (s *Service) ListMine(ctx context.Context, callerID int64) ([]model.ChildProfile, error) {
	if callerID <= 0 {
		return nil, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	return s.store.ListByAuthor(ctx, callerID)
}

type UpdateInput struct {
	Identity           model.Identity
	CountryOfResidence string
	NIPCode            string
}

func (s *Service) Update(ctx context.Context, callerID, id int64, in UpdateInput) (model.ChildProfile, error) {
	cp, err := s.loadMutable(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	cp.Identity = in.Identity
	cp.CountryOfResidence = strings.TrimSpace(in.CountryOfResidence)
	cp.NIPCode = strings.TrimSpace(in.NIPCode)

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": "identity"},
	})
}

func (s *Service) UpdatePassport(ctx context.Context, callerID, id int64, passport model.PassportInfo) (model.ChildProfile, error) {
	cp, err := s.loadMutable(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	cp.PassportInfo = passport

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": "passport"},
	})
}

func (s *Service) UpdateConsularCard(ctx context.Context, callerID, id int64, card model.ConsularCard) (model.ChildProfile, error) {
	cp, err := s.loadMutable(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	cp.ConsularCard = card

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": "consularCard"},
	})
}

func (s *Service) SetParents(ctx context.Context, callerID, id int64, parents []model.ParentInfo) (model.ChildProfile, error) {
	if err := validateParents(parents); err != nil {
		return model.ChildProfile{}, err
	}

	cp, err := s.loadMutable(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	cp.Parents = parents

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": "parents"},
	})
}

// LinkDocument records a document id under a child document type. The type
// key set is closed and a second link for the same type overwrites the
// first.
func (s *Service) LinkDocument(ctx context.Context, callerID, id int64, docType enums.ChildDocumentType, documentID int64) (model.ChildProfile, error) {
	if !docType.Valid() {
		return model.ChildProfile{}, fmt.Errorf("unknown child document type %q: %w", docType, ErrInvalidArgument)
	}
	if documentID <= 0 {
		return model.ChildProfile{}, fmt.Errorf("invalid document id: %w", ErrValidation)
	}

	cp, err := s.loadMutable(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	if cp.Documents == nil {
		cp.Documents = map[enums.ChildDocumentType]int64{}
	}
	cp.Documents[docType] = documentID

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventDocumentUpdated,
		Data:    map[string]any{"doc_type": string(docType), "document_id": documentID},
	})
}

// Submit moves a draft to pending review. Only drafts can be submitted; a
// second submit is a validation error, not a no-op, so clients surface it.
func (s *Service) Submit(ctx context.Context, callerID, id int64) (model.ChildProfile, error) {
	cp, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	if cp.Status != enums.ChildProfileStatusDraft {
		return model.ChildProfile{}, fmt.Errorf("only draft child profiles can be submitted (status %s): %w", cp.Status, ErrValidation)
	}

	from := cp.Status
	cp.Status = enums.ChildProfileStatusPending

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventStatusChanged,
		Data:    map[string]any{"from": string(from), "to": string(cp.Status)},
	})
}

// Remove soft-deletes by flipping to inactive. Works from any state and is
// idempotent.
func (s *Service) Remove(ctx context.Context, callerID, id int64) (model.ChildProfile, error) {
	cp, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}

	if cp.Status == enums.ChildProfileStatusInactive {
		return cp, nil
	}

	from := cp.Status
	cp.Status = enums.ChildProfileStatusInactive

	return s.store.SaveWithEvent(ctx, cp, model.Event{
		ActorID: &callerID,
		Type:    enums.EventStatusChanged,
		Data:    map[string]any{"from": string(from), "to": string(cp.Status)},
	})
}

func (s *Service) loadOwned(ctx context.Context, callerID, id int64) (model.ChildProfile, error) {
	cp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.ChildProfile{}, err
	}
	if err := rules.RequireOwner(cp.AuthorUserID, callerID); err != nil {
		return model.ChildProfile{}, err
	}
	return cp, nil
}

// loadMutable additionally rejects writes to removed profiles.
func (s *Service) loadMutable(ctx context.Context, callerID, id int64) (model.ChildProfile, error) {
	cp, err := s.loadOwned(ctx, callerID, id)
	if err != nil {
		return model.ChildProfile{}, err
	}
	if cp.Status == enums.ChildProfileStatusInactive {
		return model.ChildProfile{}, fmt.Errorf("child profile is inactive: %w", ErrValidation)
	}
	return cp, nil
}

func validateParents(parents []model.ParentInfo) error {
	for _, parent := range parents {
		if !parent.Role.Valid() {
			return fmt.Errorf("unknown parental role %q: %w", parent.Role, ErrInvalidArgument)
		}
		if strings.TrimSpace(parent.FirstName) == "" && strings.TrimSpace(parent.LastName) == "" && parent.ProfileID == nil {
			return fmt.Errorf("parent entry is empty: %w", ErrValidation)
		}
	}
	return nil
}
