package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type RegistrationStore interface {
	CreateWithEvent(ctx context.Context, reg model.Registration, e model.Event) (model.Registration, error)
	GetByID(ctx context.Context, id int64) (model.Registration, error)
	ListByProfile(ctx context.Context, profileID int64) ([]model.Registration, error)
	SaveWithEvent(ctx context.Context, reg model.Registration, e model.Event) (model.Registration, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (model.Profile, error)
	GetByID(ctx context.Context, id int64) (model.Profile, error)
}

type OrgStore interface {
	GetByID(ctx context.Context, id int64) (model.Org, error)
}

// Service manages consular registrations. A registration starts as a
// citizen request; activation is a staff act that assigns the number and,
// for temporary registrations, the expiry clock.
type Service struct {
	store             RegistrationStore
	profiles          ProfileStore
	orgs              OrgStore
	temporaryValidity time.Duration
	now               func() time.Time
}

func NewService(store RegistrationStore, profiles ProfileStore, orgs OrgStore, temporaryValidity time.Duration) *Service {
	if temporaryValidity <= 0 {
		temporaryValidity = 365 * 24 * time.Hour
	}
	return &Service{
		store:             store,
		profiles:          profiles,
		orgs:              orgs,
		temporaryValidity: temporaryValidity,
		now:               time.Now,
	}
}

type RequestInput struct {
	OrgID    int64
	Type     enums.RegistrationType
	Duration enums.RegistrationDuration
}

// Request files a registration request for the caller's profile with an
// organization. The caller must already have a profile; one registration
// per (profile, org) pair.
func (s *Service) Request(ctx context.Context, callerID int64, in RequestInput) (model.Registration, error) {
	if callerID <= 0 || in.OrgID <= 0 {
		return model.Registration{}, fmt.Errorf("invalid registration request: %w", ErrValidation)
	}
	if !in.Type.Valid() {
		return model.Registration{}, fmt.Errorf("unknown registration type %q: %w", in.Type, ErrInvalidArgument)
	}
	if !in.Duration.Valid() {
		return model.Registration{}, fmt.Errorf("unknown registration duration %q: %w", in.Duration, ErrInvalidArgument)
	}

	p, err := s.profiles.GetByUserID(ctx, callerID)
	if err != nil {
		return model.Registration{}, err
	}
	if !p.IsNational {
		return model.Registration{}, fmt.Errorf("consular registration requires a national profile: %w", ErrValidation)
	}
	if _, err := s.orgs.GetByID(ctx, in.OrgID); err != nil {
		return model.Registration{}, err
	}

	reg := model.Registration{
		ProfileID: p.ID,
		OrgID:     in.OrgID,
		Type:      in.Type,
		Duration:  in.Duration,
		Status:    enums.RegistrationStatusRequested,
	}

	return s.store.CreateWithEvent(ctx, reg, model.Event{
		ActorID: &callerID,
		Type:    enums.EventRegistrationRequested,
		Data: map[string]any{
			"org_id":   in.OrgID,
			"type":     string(in.Type),
			"duration": string(in.Duration),
		},
	})
}

// Activate turns a requested registration active. Staff only. The
// registration number is assigned here; temporary registrations get an
// expiry of activation time plus the configured validity.
func (s *Service) Activate(ctx context.Context, actorID int64, actorRole string, registrationID int64) (model.Registration, error) {
	if !rules.IsStaff(actorRole) {
		return model.Registration{}, rules.ErrForbidden
	}

	reg, err := s.store.GetByID(ctx, registrationID)
	if err != nil {
		return model.Registration{}, err
	}
	if reg.Status != enums.RegistrationStatusRequested {
		return model.Registration{}, fmt.Errorf("only requested registrations can be activated (status %s): %w", reg.Status, ErrValidation)
	}

	registeredAt := s.now().UTC()
	from := reg.Status

	reg.Status = enums.RegistrationStatusActive
	reg.RegisteredAt = registeredAt
	reg.RegistrationNumber = registrationNumber(registeredAt, reg.ID)
	if reg.Duration == enums.RegistrationDurationTemporary {
		expires := registeredAt.Add(s.temporaryValidity)
		reg.ExpiresAt = &expires
	} else {
		reg.ExpiresAt = nil
	}

	return s.store.SaveWithEvent(ctx, reg, model.Event{
		ActorID: &actorID,
		Type:    enums.EventStatusChanged,
		Data: map[string]any{
			"from":                string(from),
			"to":                  string(reg.Status),
			"registration_number": reg.RegistrationNumber,
		},
	})
}

// Get returns a registration, gated on the owning profile's user.
func (s *Service) Get(ctx context.Context, callerID int64, callerRole string, registrationID int64) (model.Registration, error) {
	reg, err := s.store.GetByID(ctx, registrationID)
	if err != nil {
		return model.Registration{}, err
	}

	if !rules.IsStaff(callerRole) {
		p, err := s.profiles.GetByID(ctx, reg.ProfileID)
		if err != nil {
			return model.Registration{}, err
		}
		if err := rules.RequireOwner(p.UserID, callerID); err != nil {
			return model.Registration{}, err
		}
	}

	return reg, nil
}

func (s *Service) ListMine(ctx context.Context, callerID int64) ([]model.Registration, error) {
	if callerID <= 0 {
		return nil, fmt.Errorf("invalid caller id: %w", ErrValidation)
	}

	p, err := s.profiles.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return s.store.ListByProfile(ctx, p.ID)
}

// ExpireLapsed is called by the cleanup job.
func (s *Service) ExpireLapsed(ctx context.Context) (int64, error) {
	return s.store.ExpireLapsed(ctx, s.now().UTC())
}

func registrationNumber(registeredAt time.Time, id int64) string {
	return fmt.Sprintf("CR-%d-%06d", registeredAt.Year(), id)
}
