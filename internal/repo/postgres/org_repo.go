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

var (
	ErrOrgNotFound        = errors.New("org not found")
	ErrOrgServiceNotFound = errors.New("org service not found")
)

// OrgRepo reads the service catalog. The catalog is seeded out of band;
// this module never writes to it.
type OrgRepo struct {
	pool *pgxpool.Pool
}

func NewOrgRepo(pool *pgxpool.Pool) *OrgRepo {
	return &OrgRepo{pool: pool}
}

func (r *OrgRepo) GetByID(ctx context.Context, id int64) (model.Org, error) {
	if r.pool == nil {
		return model.Org{}, fmt.Errorf("postgres pool is nil")
	}

	var (
		org    model.Org
		status string
	)
	err := r.pool.QueryRow(ctx, `
SELECT id, name, country_code, city, status
FROM orgs
WHERE id = $1
`, id).Scan(&org.ID, &org.Name, &org.CountryCode, &org.City, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Org{}, ErrOrgNotFound
		}
		return model.Org{}, fmt.Errorf("get org by id: %w", err)
	}
	org.Status = enums.ServiceStatus(status)

	return org, nil
}

func (r *OrgRepo) ListOrgs(ctx context.Context) ([]model.Org, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, name, country_code, city, status
FROM orgs
ORDER BY name, id
`)
	if err != nil {
		return nil, fmt.Errorf("list orgs: %w", err)
	}
	defer rows.Close()

	var orgs []model.Org
	for rows.Next() {
		var (
			org    model.Org
			status string
		)
		if err := rows.Scan(&org.ID, &org.Name, &org.CountryCode, &org.City, &status); err != nil {
			return nil, fmt.Errorf("scan org row: %w", err)
		}
		org.Status = enums.ServiceStatus(status)
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate org rows: %w", err)
	}

	return orgs, nil
}

func (r *OrgRepo) GetOrgService(ctx context.Context, id int64) (model.OrgService, error) {
	if r.pool == nil {
		return model.OrgService{}, fmt.Errorf("postgres pool is nil")
	}

	var os model.OrgService
	err := r.pool.QueryRow(ctx, `
SELECT id, org_id, service_id, is_active
FROM org_services
WHERE id = $1
`, id).Scan(&os.ID, &os.OrgID, &os.ServiceID, &os.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.OrgService{}, ErrOrgServiceNotFound
		}
		return model.OrgService{}, fmt.Errorf("get org service by id: %w", err)
	}

	return os, nil
}

func (r *OrgRepo) ListServicesForOrg(ctx context.Context, orgID int64) ([]model.Service, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT s.id, s.name, s.category, s.description
FROM services s
JOIN org_services os ON os.service_id = s.id
WHERE os.org_id = $1 AND os.is_active
ORDER BY s.name, s.id
`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list services for org: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var (
			svc      model.Service
			category string
		)
		if err := rows.Scan(&svc.ID, &svc.Name, &category, &svc.Description); err != nil {
			return nil, fmt.Errorf("scan service row: %w", err)
		}
		svc.Category = enums.ServiceCategory(category)
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service rows: %w", err)
	}

	return services, nil
}
