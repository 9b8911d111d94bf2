package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
	GetByID(ctx context.Context, id int64) (model.Profile, error)
	UpsertWithEvent(ctx context.Context, p model.Profile, e model.Event) (model.Profile, error)
	SaveWithEvent(ctx context.Context, p model.Profile, e model.Event) (model.Profile, error)
}

type Service struct {
	store ProfileStore
	now   func() time.Time
}

func NewService(store ProfileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// UpsertInput carries the writable state of a profile. Nil sections mean
// "leave as stored". The completion score is absent on purpose: it is
// always derived.
type UpsertInput struct {
	ProfileType        enums.ProfileType
	IsNational         *bool
	CountryOfResidence *string
	Identity           *model.Identity
	PassportInfo       *model.PassportInfo
	Addresses          *model.Addresses
	Contacts           *model.Contacts
	EmergencyContacts  []model.EmergencyContact
	Family             *model.Family
	Profession         *model.Profession
}

// Upsert creates the caller's profile or patches it. Sections present in
// the input replace the stored section wholesale; absent sections keep
// their stored value. The first write logs profile_created, later ones
// profile_update.
func (s *Service) Upsert(ctx context.Context, callerID int64, in UpsertInput) (model.Profile, error) {
	if callerID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}

	existing, err := s.store.GetByUserID(ctx, callerID)
	isNew := errors.Is(err, pgrepo.ErrProfileNotFound)
	if err != nil && !isNew {
		return model.Profile{}, err
	}

	p := existing
	if isNew {
		p = model.Profile{UserID: callerID, Status: enums.ProfileStatusActive}
	}

	if in.ProfileType != "" {
		if !in.ProfileType.Valid() {
			return model.Profile{}, fmt.Errorf("unknown profile type %q: %w", in.ProfileType, ErrValidation)
		}
		p.ProfileType = in.ProfileType
	}
	if p.ProfileType == "" {
		return model.Profile{}, fmt.Errorf("profile type is required: %w", ErrValidation)
	}
	if in.IsNational != nil {
		p.IsNational = *in.IsNational
	}
	if in.CountryOfResidence != nil {
		p.CountryOfResidence = strings.TrimSpace(*in.CountryOfResidence)
	}
	if in.Identity != nil {
		p.Identity = *in.Identity
	}
	if in.PassportInfo != nil {
		p.PassportInfo = *in.PassportInfo
	}
	if in.Addresses != nil {
		p.Addresses = *in.Addresses
	}
	if in.Contacts != nil {
		p.Contacts = *in.Contacts
	}
	if in.EmergencyContacts != nil {
		p.EmergencyContacts = in.EmergencyContacts
	}
	if in.Family != nil {
		p.Family = *in.Family
	}
	if in.Profession != nil {
		p.Profession = *in.Profession
	}
	p.CompletionScore = rules.CompletionScore(p, p.ProfileType)

	eventType := enums.EventProfileUpdate
	if isNew {
		eventType = enums.EventProfileCreated
	}

	saved, err := s.store.UpsertWithEvent(ctx, p, model.Event{
		ActorID: &callerID,
		Type:    eventType,
		Data:    map[string]any{"profile_type": string(p.ProfileType)},
	})
	if err != nil {
		return model.Profile{}, err
	}

	return saved, nil
}

// Get returns a profile by owner user id. Owners see their own profile;
// staff see any. Absence is reported before the ownership check.
func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, userID int64) (model.Profile, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	if !rules.IsStaff(callerRole) {
		if err := rules.RequireOwner(p.UserID, callerID); err != nil {
			return model.Profile{}, err
		}
	}

	return p, nil
}

func (s *Service) GetMine(ctx context.Context, callerID int64) (model.Profile, error) {
	if callerID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	return s.store.GetByUserID(ctx, callerID)
}

// Profile section names accepted by UpdateSection. They match the wire
// payload keys, not the storage column names.
const (
	SectionIdentity          = "identity"
	SectionPassport          = "passportInfo"
	SectionContacts          = "contacts"
	SectionAddresses         = "addresses"
	SectionFamily            = "family"
	SectionProfession        = "profession"
	SectionEmergencyContacts = "emergencyContacts"
)

// UpdateSection merges a partial payload into one section of the caller's
// profile. Fields present in the payload win; absent fields keep their
// stored value. The emergency contact list is replaced, not merged.
func (s *Service) UpdateSection(ctx context.Context, callerID int64, section string, data map[string]any) (model.Profile, error) {
	if callerID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}
	if len(data) == 0 {
		return model.Profile{}, fmt.Errorf("empty section payload: %w", ErrValidation)
	}

	p, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.Profile{}, err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return model.Profile{}, fmt.Errorf("marshal section payload: %w", err)
	}

	switch section {
	case SectionIdentity:
		err = mergeSection(&p.Identity, raw)
	case SectionPassport:
		err = mergeSection(&p.PassportInfo, raw)
	case SectionContacts:
		err = mergeSection(&p.Contacts, raw)
	case SectionAddresses:
		err = mergeSection(&p.Addresses, raw)
	case SectionFamily:
		err = mergeSection(&p.Family, raw)
	case SectionProfession:
		err = mergeSection(&p.Profession, raw)
	default:
		return model.Profile{}, fmt.Errorf("unknown section %q: %w", section, ErrInvalidArgument)
	}
	if err != nil {
		return model.Profile{}, err
	}

	p.CompletionScore = rules.CompletionScore(p, p.ProfileType)

	return s.store.SaveWithEvent(ctx, p, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": section},
	})
}

// ReplaceEmergencyContacts swaps the full contact list. Lists have no merge
// semantics; the payload is the new truth.
func (s *Service) ReplaceEmergencyContacts(ctx context.Context, callerID int64, contacts []model.EmergencyContact) (model.Profile, error) {
	if callerID <= 0 {
		return model.Profile{}, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}

	p, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.Profile{}, err
	}

	p.EmergencyContacts = contacts
	p.CompletionScore = rules.CompletionScore(p, p.ProfileType)

	return s.store.SaveWithEvent(ctx, p, model.Event{
		ActorID: &callerID,
		Type:    enums.EventProfileUpdate,
		Data:    map[string]any{"section": SectionEmergencyContacts},
	})
}

// mergeSection overlays the decoded payload on the stored section. Zero
// payload fields never clobber stored values; clearing a field goes
// through a full Upsert instead.
func mergeSection[T any](dst *T, raw []byte) error {
	var patch T
	if err := json.Unmarshal(raw, &patch); err != nil {
		return fmt.Errorf("decode section payload: %w", ErrValidation)
	}
	if err := mergo.Merge(dst, patch, mergo.WithOverride); err != nil {
		return fmt.Errorf("merge section: %w", err)
	}
	return nil
}

// AddDocument links an uploaded document under a document type key. Linking
// the same id twice is a no-op, not an error.
func (s *Service) AddDocument(ctx context.Context, callerID int64, docType string, documentID int64) (model.Profile, error) {
	docType = strings.TrimSpace(docType)
	if callerID <= 0 || documentID <= 0 || docType == "" {
		return model.Profile{}, fmt.Errorf("invalid document link: %w", ErrValidation)
	}

	p, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.Profile{}, err
	}

	for _, id := range p.Documents[docType] {
		if id == documentID {
			return p, nil
		}
	}

	if p.Documents == nil {
		p.Documents = map[string][]int64{}
	}
	p.Documents[docType] = append(p.Documents[docType], documentID)

	return s.store.SaveWithEvent(ctx, p, model.Event{
		ActorID: &callerID,
		Type:    enums.EventDocumentUpdated,
		Data:    map[string]any{"doc_type": docType, "document_id": documentID, "action": "added"},
	})
}

// RemoveDocument unlinks a document id from a document type key. Removing
// an id that is not linked is a no-op.
func (s *Service) RemoveDocument(ctx context.Context, callerID int64, docType string, documentID int64) (model.Profile, error) {
	docType = strings.TrimSpace(docType)
	if callerID <= 0 || documentID <= 0 || docType == "" {
		return model.Profile{}, fmt.Errorf("invalid document link: %w", ErrValidation)
	}

	p, err := s.store.GetByUserID(ctx, callerID)
	if err != nil {
		return model.Profile{}, err
	}

	ids := p.Documents[docType]
	kept := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != documentID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return p, nil
	}

	if len(kept) == 0 {
		delete(p.Documents, docType)
	} else {
		p.Documents[docType] = kept
	}

	return s.store.SaveWithEvent(ctx, p, model.Event{
		ActorID: &callerID,
		Type:    enums.EventDocumentUpdated,
		Data:    map[string]any{"doc_type": docType, "document_id": documentID, "action": "removed"},
	})
}
