package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationExists   = errors.New("registration already exists for profile and org")
)

type RegistrationRepo struct {
	pool   *pgxpool.Pool
	events *EventRepo
}

func NewRegistrationRepo(pool *pgxpool.Pool, events *EventRepo) *RegistrationRepo {
	return &RegistrationRepo{pool: pool, events: events}
}

const registrationColumns = `
	id,
	profile_id,
	org_id,
	registration_number,
	registration_type,
	duration,
	status,
	registered_at,
	expires_at,
	updated_at`

func scanRegistration(row pgx.Row) (model.Registration, error) {
	var (
		reg              model.Registration
		registrationType string
		duration         string
		status           string
	)
	err := row.Scan(
		&reg.ID,
		&reg.ProfileID,
		&reg.OrgID,
		&reg.RegistrationNumber,
		&registrationType,
		&duration,
		&status,
		&reg.RegisteredAt,
		&reg.ExpiresAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return model.Registration{}, err
	}
	reg.Type = enums.RegistrationType(registrationType)
	reg.Duration = enums.RegistrationDuration(duration)
	reg.Status = enums.RegistrationStatus(status)
	return reg, nil
}

// CreateWithEvent inserts a requested registration and its audit event in
// one transaction. The (profile, org) pair is unique; a second request
// surfaces ErrRegistrationExists.
func (r *RegistrationRepo) CreateWithEvent(ctx context.Context, reg model.Registration, e model.Event) (model.Registration, error) {
	if r.pool == nil {
		return model.Registration{}, fmt.Errorf("postgres pool is nil")
	}

	query := `
INSERT INTO consular_registrations (
	profile_id,
	org_id,
	registration_number,
	registration_type,
	duration,
	status,
	expires_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
ON CONFLICT (profile_id, org_id) DO NOTHING
RETURNING` + registrationColumns

	var saved model.Registration
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			reg.ProfileID,
			reg.OrgID,
			reg.RegistrationNumber,
			string(reg.Type),
			string(reg.Duration),
			string(reg.Status),
			reg.ExpiresAt,
		)

		var scanErr error
		saved, scanErr = scanRegistration(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrRegistrationExists
			}
			return fmt.Errorf("create registration: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetRegistration, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Registration{}, err
	}

	return saved, nil
}

func (r *RegistrationRepo) GetByID(ctx context.Context, id int64) (model.Registration, error) {
	if r.pool == nil {
		return model.Registration{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + registrationColumns + `
FROM consular_registrations
WHERE id = $1`

	reg, err := scanRegistration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Registration{}, ErrRegistrationNotFound
		}
		return model.Registration{}, fmt.Errorf("get registration by id: %w", err)
	}

	return reg, nil
}

func (r *RegistrationRepo) ListByProfile(ctx context.Context, profileID int64) ([]model.Registration, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + registrationColumns + `
FROM consular_registrations
WHERE profile_id = $1
ORDER BY registered_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("list registrations by profile: %w", err)
	}
	defer rows.Close()

	var regs []model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration row: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registration rows: %w", err)
	}

	return regs, nil
}

// SaveWithEvent updates a registration and appends its audit event in one
// transaction.
func (r *RegistrationRepo) SaveWithEvent(ctx context.Context, reg model.Registration, e model.Event) (model.Registration, error) {
	if r.pool == nil {
		return model.Registration{}, fmt.Errorf("postgres pool is nil")
	}

	query := `
UPDATE consular_registrations SET
	registration_number = $2,
	registration_type = $3,
	duration = $4,
	status = $5,
	registered_at = $6,
	expires_at = $7,
	updated_at = NOW()
WHERE id = $1
RETURNING` + registrationColumns

	var saved model.Registration
	err := WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			reg.ID,
			reg.RegistrationNumber,
			string(reg.Type),
			string(reg.Duration),
			string(reg.Status),
			reg.RegisteredAt.UTC(),
			reg.ExpiresAt,
		)

		var scanErr error
		saved, scanErr = scanRegistration(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrRegistrationNotFound
			}
			return fmt.Errorf("save registration: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetRegistration, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Registration{}, err
	}

	return saved, nil
}

// ExpireLapsed flips active temporary registrations whose expiry has
// passed. Returns the number of rows flipped.
func (r *RegistrationRepo) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE consular_registrations
SET status = 'expired', updated_at = NOW()
WHERE status = 'active'
  AND expires_at IS NOT NULL
  AND expires_at < $1
`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("expire lapsed registrations: %w", err)
	}

	return tag.RowsAffected(), nil
}
