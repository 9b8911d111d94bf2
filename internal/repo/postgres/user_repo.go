package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `id, external_id, email, first_name, last_name, role, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FirstName, &u.LastName, &role, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Role = enums.Role(role)
	return u, nil
}

// UpsertByExternalID creates or refreshes the local mirror of an identity
// provider account. The role is set only on first insert; role changes go
// through SetRole so a token exchange can never demote an admin.
func (r *UserRepo) UpsertByExternalID(ctx context.Context, u model.User) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	const query = `
INSERT INTO users (
	external_id,
	email,
	first_name,
	last_name,
	role,
	updated_at
) VALUES ($1, $2, $3, $4, $5, NOW())
ON CONFLICT (external_id) DO UPDATE SET
	email = EXCLUDED.email,
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	updated_at = NOW()
RETURNING id, external_id, email, first_name, last_name, role, created_at
`

	role := u.Role
	if role == "" {
		role = enums.RoleUser
	}

	saved, err := scanUser(r.pool.QueryRow(ctx, query, u.ExternalID, u.Email, u.FirstName, u.LastName, string(role)))
	if err != nil {
		return model.User{}, fmt.Errorf("upsert user by external id: %w", err)
	}

	return saved, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	if r.pool == nil {
		return model.User{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("get user by id: %w", err)
	}

	return u, nil
}

// ListByIDs resolves a batch of user ids in one query. Missing ids are
// simply absent from the result, not an error.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	if r.pool == nil || len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list users by ids: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func (r *UserRepo) SetRole(ctx context.Context, id int64, role enums.Role) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE users
SET role = $2, updated_at = NOW()
WHERE id = $1
`, id, string(role))
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
