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

var ErrChildProfileNotFound = errors.New("child profile not found")

type ChildProfileRepo struct {
	pool   *pgxpool.Pool
	events *EventRepo
}

func NewChildProfileRepo(pool *pgxpool.Pool, events *EventRepo) *ChildProfileRepo {
	return &ChildProfileRepo{pool: pool, events: events}
}

type childSections struct {
	identity     string
	passport     string
	consularCard string
	parents      string
	documents    string
}

func marshalChildSections(cp model.ChildProfile) (childSections, error) {
	var s childSections
	parts := []struct {
		name string
		dst  *string
		src  any
	}{
		{"identity", &s.identity, cp.Identity},
		{"passport", &s.passport, cp.PassportInfo},
		{"consular_card", &s.consularCard, cp.ConsularCard},
		{"parents", &s.parents, cp.Parents},
		{"documents", &s.documents, cp.Documents},
	}
	for _, part := range parts {
		raw, err := json.Marshal(part.src)
		if err != nil {
			return childSections{}, fmt.Errorf("marshal child profile %s: %w", part.name, err)
		}
		*part.dst = string(raw)
	}
	return s, nil
}

const childProfileColumns = `
	id,
	author_user_id,
	status,
	country_of_residence,
	nip_code,
	identity,
	passport,
	consular_card,
	parents,
	documents,
	created_at,
	updated_at`

func scanChildProfile(row pgx.Row) (model.ChildProfile, error) {
	var (
		cp           model.ChildProfile
		status       string
		identity     []byte
		passport     []byte
		consularCard []byte
		parents      []byte
		documents    []byte
	)

	err := row.Scan(
		&cp.ID,
		&cp.AuthorUserID,
		&status,
		&cp.CountryOfResidence,
		&cp.NIPCode,
		&identity,
		&passport,
		&consularCard,
		&parents,
		&documents,
		&cp.CreatedAt,
		&cp.UpdatedAt,
	)
	if err != nil {
		return model.ChildProfile{}, err
	}

	cp.Status = enums.ChildProfileStatus(status)

	sections := []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"identity", identity, &cp.Identity},
		{"passport", passport, &cp.PassportInfo},
		{"consular_card", consularCard, &cp.ConsularCard},
		{"parents", parents, &cp.Parents},
		{"documents", documents, &cp.Documents},
	}
	for _, section := range sections {
		if len(section.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(section.raw, section.dst); err != nil {
			return model.ChildProfile{}, fmt.Errorf("unmarshal child profile %s: %w", section.name, err)
		}
	}

	return cp, nil
}

// CreateWithEvent inserts a draft child profile and its audit event in one
// transaction.
func (r *ChildProfileRepo) CreateWithEvent(ctx context.Context, cp model.ChildProfile, e model.Event) (model.ChildProfile, error) {
	if r.pool == nil {
		return model.ChildProfile{}, fmt.Errorf("postgres pool is nil")
	}

	sections, err := marshalChildSections(cp)
	if err != nil {
		return model.ChildProfile{}, err
	}

	query := `
INSERT INTO child_profiles (
	author_user_id,
	status,
	country_of_residence,
	nip_code,
	identity,
	passport,
	consular_card,
	parents,
	documents,
	updated_at
) VALUES ($1, $2, $3, $4, $5::jsonb, $6::jsonb, $7::jsonb, $8::jsonb, $9::jsonb, NOW())
RETURNING` + childProfileColumns

	var created model.ChildProfile
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			cp.AuthorUserID,
			string(cp.Status),
			cp.CountryOfResidence,
			cp.NIPCode,
			sections.identity,
			sections.passport,
			sections.consularCard,
			sections.parents,
			sections.documents,
		)

		var scanErr error
		created, scanErr = scanChildProfile(row)
		if scanErr != nil {
			return fmt.Errorf("create child profile: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetChildProfile, ID: created.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.ChildProfile{}, err
	}

	return created, nil
}

func (r *ChildProfileRepo) GetByID(ctx context.Context, id int64) (model.ChildProfile, error) {
	if r.pool == nil {
		return model.ChildProfile{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + childProfileColumns + `
FROM child_profiles
WHERE id = $1`

	cp, err := scanChildProfile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ChildProfile{}, ErrChildProfileNotFound
		}
		return model.ChildProfile{}, fmt.Errorf("get child profile by id: %w", err)
	}

	return cp, nil
}

func (r *ChildProfileRepo) ListByAuthor(ctx context.Context, authorUserID int64) ([]model.ChildProfile, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + childProfileColumns + `
FROM child_profiles
WHERE author_user_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, authorUserID)
	if err != nil {
		return nil, fmt.Errorf("list child profiles by author: %w", err)
	}
	defer rows.Close()

	var profiles []model.ChildProfile
	for rows.Next() {
		cp, err := scanChildProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan child profile row: %w", err)
		}
		profiles = append(profiles, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate child profile rows: %w", err)
	}

	return profiles, nil
}

// SaveWithEvent persists the full child profile state and its audit event
// in a single transaction.
func (r *ChildProfileRepo) SaveWithEvent(ctx context.Context, cp model.ChildProfile, e model.Event) (model.ChildProfile, error) {
	if r.pool == nil {
		return model.ChildProfile{}, fmt.Errorf("postgres pool is nil")
	}

	sections, err := marshalChildSections(cp)
	if err != nil {
		return model.ChildProfile{}, err
	}

	query := `
UPDATE child_profiles SET
	status = $2,
	country_of_residence = $3,
	nip_code = $4,
	identity = $5::jsonb,
	passport = $6::jsonb,
	consular_card = $7::jsonb,
	parents = $8::jsonb,
	documents = $9::jsonb,
	updated_at = NOW()
WHERE id = $1
RETURNING` + childProfileColumns

	var saved model.ChildProfile
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			cp.ID,
			string(cp.Status),
			cp.CountryOfResidence,
			cp.NIPCode,
			sections.identity,
			sections.passport,
			sections.consularCard,
			sections.parents,
			sections.documents,
		)

		var scanErr error
		saved, scanErr = scanChildProfile(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrChildProfileNotFound
			}
			return fmt.Errorf("save child profile: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetChildProfile, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.ChildProfile{}, err
	}

	return saved, nil
}
