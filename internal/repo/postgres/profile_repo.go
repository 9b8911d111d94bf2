package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool   *pgxpool.Pool
	events *EventRepo
}

func NewProfileRepo(pool *pgxpool.Pool, events *EventRepo) *ProfileRepo {
	return &ProfileRepo{pool: pool, events: events}
}

type profileSections struct {
	identity          string
	passport          string
	contacts          string
	addresses         string
	family            string
	profession        string
	emergencyContacts string
	documents         string
}

func marshalProfileSections(p model.Profile) (profileSections, error) {
	var s profileSections
	parts := []struct {
		name string
		dst  *string
		src  any
	}{
		{"identity", &s.identity, p.Identity},
		{"passport", &s.passport, p.PassportInfo},
		{"contacts", &s.contacts, p.Contacts},
		{"addresses", &s.addresses, p.Addresses},
		{"family", &s.family, p.Family},
		{"profession", &s.profession, p.Profession},
		{"emergency_contacts", &s.emergencyContacts, p.EmergencyContacts},
		{"documents", &s.documents, p.Documents},
	}
	for _, part := range parts {
		raw, err := json.Marshal(part.src)
		if err != nil {
			return profileSections{}, fmt.Errorf("marshal profile %s: %w", part.name, err)
		}
		*part.dst = string(raw)
	}
	return s, nil
}

const profileColumns = `
	id,
	user_id,
	profile_type,
	status,
	is_national,
	country_of_residence,
	identity,
	passport,
	contacts,
	addresses,
	family,
	profession,
	emergency_contacts,
	documents,
	completion_score,
	created_at,
	updated_at`

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p                 model.Profile
		profileType       string
		status            string
		identity          []byte
		passport          []byte
		contacts          []byte
		addresses         []byte
		family            []byte
		profession        []byte
		emergencyContacts []byte
		documents         []byte
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&profileType,
		&status,
		&p.IsNational,
		&p.CountryOfResidence,
		&identity,
		&passport,
		&contacts,
		&addresses,
		&family,
		&profession,
		&emergencyContacts,
		&documents,
		&p.CompletionScore,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return model.Profile{}, err
	}

	p.ProfileType = enums.ProfileType(profileType)
	p.Status = enums.ProfileStatus(status)

	sections := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"identity", identity, &p.Identity},
		{"passport", passport, &p.PassportInfo},
		{"contacts", contacts, &p.Contacts},
		{"addresses", addresses, &p.Addresses},
		{"family", family, &p.Family},
		{"profession", profession, &p.Profession},
		{"emergency_contacts", emergencyContacts, &p.EmergencyContacts},
		{"documents", documents, &p.Documents},
	}
	for _, section := range sections {
		if len(section.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dst); err != nil {
			return model.Profile{}, fmt.Errorf("unmarshal profile %s: %w", section.name, err)
		}
	}

	return p, nil
}

// UpsertWithEvent inserts the profile for its user or overwrites the
// existing row, recording the audit event in the same transaction. One
// profile per user is a table constraint, not a service convention.
func (r *ProfileRepo) UpsertWithEvent(ctx context.Context, p model.Profile, e model.Event) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	sections, err := marshalProfileSections(p)
	if err != nil {
		return model.Profile{}, err
	}

	query := `
INSERT INTO profiles (
	user_id,
	profile_type,
	status,
	is_national,
	country_of_residence,
	identity,
	passport,
	contacts,
	addresses,
	family,
	profession,
	emergency_contacts,
	documents,
	completion_score,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9::jsonb, $10::jsonb, $11::jsonb, $12::jsonb, $13::jsonb, $14, NOW())
ON CONFLICT (user_id) DO UPDATE SET
	profile_type = EXCLUDED.profile_type,
	status = EXCLUDED.status,
	is_national = EXCLUDED.is_national,
	country_of_residence = EXCLUDED.country_of_residence,
	identity = EXCLUDED.identity,
	passport = EXCLUDED.passport,
	contacts = EXCLUDED.contacts,
	addresses = EXCLUDED.addresses,
	family = EXCLUDED.family,
	profession = EXCLUDED.profession,
	emergency_contacts = EXCLUDED.emergency_contacts,
	documents = EXCLUDED.documents,
	completion_score = EXCLUDED.completion_score,
	updated_at = NOW()
RETURNING` + profileColumns

	var saved model.Profile
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			p.UserID,
			string(p.ProfileType),
			string(p.Status),
			p.IsNational,
			p.CountryOfResidence,
			sections.identity,
			sections.passport,
			sections.contacts,
			sections.addresses,
			sections.family,
			sections.profession,
			sections.emergencyContacts,
			sections.documents,
			p.CompletionScore,
		)

		var scanErr error
		saved, scanErr = scanProfile(row)
		if scanErr != nil {
			return fmt.Errorf("upsert profile: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetProfile, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}

	return saved, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + profileColumns + `
FROM profiles
WHERE user_id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by user id: %w", err)
	}

	return p, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + profileColumns + `
FROM profiles
WHERE id = $1`

	p, err := scanProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}

	return p, nil
}

// SaveWithEvent persists the full profile state and its audit event in a
// single transaction. The stored completion score is whatever the caller
// computed; this layer never rescores.
func (r *ProfileRepo) SaveWithEvent(ctx context.Context, p model.Profile, e model.Event) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, fmt.Errorf("postgres pool is nil")
	}

	sections, err := marshalProfileSections(p)
	if err != nil {
		return model.Profile{}, err
	}

	query := `
UPDATE profiles SET
	profile_type = $2,
	status = $3,
	is_national = $4,
	country_of_residence = $5,
	identity = $6::jsonb,
	passport = $7::jsonb,
	contacts = $8::jsonb,
	addresses = $9::jsonb,
	family = $10::jsonb,
	profession = $11::jsonb,
	emergency_contacts = $12::jsonb,
	documents = $13::jsonb,
	completion_score = $14,
	updated_at = NOW()
WHERE id = $1
RETURNING` + profileColumns

	var saved model.Profile
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			p.ID,
			string(p.ProfileType),
			string(p.Status),
			p.IsNational,
			p.CountryOfResidence,
			sections.identity,
			sections.passport,
			sections.contacts,
			sections.addresses,
			sections.family,
			sections.profession,
			sections.emergencyContacts,
			sections.documents,
			p.CompletionScore,
		)

		var scanErr error
		saved, scanErr = scanProfile(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("save profile: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetProfile, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Profile{}, err
	}

	return saved, nil
}
