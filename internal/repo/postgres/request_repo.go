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

var ErrRequestNotFound = errors.New("request not found")

type RequestRepo struct {
	pool   *pgxpool.Pool
	events *EventRepo
}

func NewRequestRepo(pool *pgxpool.Pool, events *EventRepo) *RequestRepo {
	return &RequestRepo{pool: pool, events: events}
}

const requestColumns = `
	id,
	reference,
	user_id,
	org_id,
	org_service_id,
	status,
	priority,
	form_data,
	documents,
	assigned_to,
	submitted_at,
	created_at,
	updated_at`

func scanRequest(row pgx.Row) (model.Request, error) {
	var (
		req       model.Request
		status    string
		priority  string
		formData  []byte
		documents []byte
	)
	err := row.Scan(
		&req.ID,
		&req.Reference,
		&req.UserID,
		&req.OrgID,
		&req.OrgServiceID,
		&status,
		&priority,
		&formData,
		&documents,
		&req.AssignedTo,
		&req.SubmittedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return model.Request{}, err
	}

	req.Status = enums.RequestStatus(status)
	req.Priority = enums.RequestPriority(priority)

	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &req.FormData); err != nil {
			return model.Request{}, fmt.Errorf("unmarshal request form data: %w", err)
		}
	}
	if len(documents) > 0 {
		if err := json.Unmarshal(documents, &req.Documents); err != nil {
			return model.Request{}, fmt.Errorf("unmarshal request documents: %w", err)
		}
	}

	return req, nil
}

func marshalRequestBlobs(req model.Request) (formData, documents string, err error) {
	rawForm, err := json.Marshal(req.FormData)
	if err != nil {
		return "", "", fmt.Errorf("marshal request form data: %w", err)
	}
	docs := req.Documents
	if docs == nil {
		docs = []int64{}
	}
	rawDocs, err := json.Marshal(docs)
	if err != nil {
		return "", "", fmt.Errorf("marshal request documents: %w", err)
	}
	return string(rawForm), string(rawDocs), nil
}

// CreateWithEvent inserts a draft request and its audit event in one
// transaction.
func (r *RequestRepo) CreateWithEvent(ctx context.Context, req model.Request, e model.Event) (model.Request, error) {
	if r.pool == nil {
		return model.Request{}, fmt.Errorf("postgres pool is nil")
	}

	formData, documents, err := marshalRequestBlobs(req)
	if err != nil {
		return model.Request{}, err
	}

	query := `
INSERT INTO requests (
	reference,
	user_id,
	org_id,
	org_service_id,
	status,
	priority,
	form_data,
	documents,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, NOW())
RETURNING` + requestColumns

	var saved model.Request
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			req.Reference,
			req.UserID,
			req.OrgID,
			req.OrgServiceID,
			string(req.Status),
			string(req.Priority),
			formData,
			documents,
		)

		var scanErr error
		saved, scanErr = scanRequest(row)
		if scanErr != nil {
			return fmt.Errorf("create request: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetRequest, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Request{}, err
	}

	return saved, nil
}

func (r *RequestRepo) GetByID(ctx context.Context, id int64) (model.Request, error) {
	if r.pool == nil {
		return model.Request{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + requestColumns + `
FROM requests
WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Request{}, ErrRequestNotFound
		}
		return model.Request{}, fmt.Errorf("get request by id: %w", err)
	}

	return req, nil
}

func (r *RequestRepo) ListByUser(ctx context.Context, userID int64) ([]model.Request, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT` + requestColumns + `
FROM requests
WHERE user_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests by user: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate request rows: %w", err)
	}

	return requests, nil
}

// SaveWithEvent persists the full request state and its audit event in a
// single transaction.
func (r *RequestRepo) SaveWithEvent(ctx context.Context, req model.Request, e model.Event) (model.Request, error) {
	if r.pool == nil {
		return model.Request{}, fmt.Errorf("postgres pool is nil")
	}

	formData, documents, err := marshalRequestBlobs(req)
	if err != nil {
		return model.Request{}, err
	}

	query := `
UPDATE requests SET
	status = $2,
	priority = $3,
	form_data = $4::jsonb,
	documents = $5::jsonb,
	assigned_to = $6,
	submitted_at = $7,
	updated_at = NOW()
WHERE id = $1
RETURNING` + requestColumns

	var saved model.Request
	err = WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(
			ctx,
			query,
			req.ID,
			string(req.Status),
			string(req.Priority),
			formData,
			documents,
			req.AssignedTo,
			req.SubmittedAt,
		)

		var scanErr error
		saved, scanErr = scanRequest(row)
		if scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("save request: %w", scanErr)
		}

		e.Target = model.EventTarget{Type: enums.EventTargetRequest, ID: saved.ID}
		if _, err := r.events.AppendTx(ctx, tx, e); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return model.Request{}, err
	}

	return saved, nil
}
