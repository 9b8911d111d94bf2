package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

type EventRepo struct {
	pool *pgxpool.Pool
}

// EventFilter narrows a target's history. Zero value means the full
// newest-first stream.
type EventFilter struct {
	Types  []enums.EventType
	Before *time.Time
	Limit  int
}

func NewEventRepo(pool *pgxpool.Pool) *EventRepo {
	return &EventRepo{pool: pool}
}

const insertEventQuery = `
INSERT INTO events (
	event_type,
	target_type,
	target_id,
	actor_id,
	data,
	created_at
) VALUES ($1, $2, $3, $4, $5::jsonb, $6)
RETURNING id
`

func (r *EventRepo) Append(ctx context.Context, e model.Event) (int64, error) {
	return appendEvent(ctx, r.pool, e)
}

// AppendTx writes an event inside a caller-owned transaction so a
// mutation and its audit record commit or roll back together.
func (r *EventRepo) AppendTx(ctx context.Context, tx pgx.Tx, e model.Event) (int64, error) {
	return appendEvent(ctx, tx, e)
}

type execQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func appendEvent(ctx context.Context, q execQuerier, e model.Event) (int64, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return 0, fmt.Errorf("marshal event data: %w", err)
	}

	var actorID any
	if e.ActorID != nil && *e.ActorID > 0 {
		actorID = *e.ActorID
	}

	createdAt := e.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var id int64
	err = q.QueryRow(
		ctx,
		insertEventQuery,
		string(e.Type),
		string(e.Target.Type),
		strconv.FormatInt(e.Target.ID, 10),
		actorID,
		string(data),
		createdAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}

	return id, nil
}

func (r *EventRepo) ListByTarget(ctx context.Context, target model.EventTarget, filter EventFilter) ([]model.Event, error) {
	qb := sq.Select("id", "event_type", "target_type", "target_id", "actor_id", "data", "created_at").
		From("events").
		Where(sq.Eq{
			"target_type": string(target.Type),
			"target_id":   strconv.FormatInt(target.ID, 10),
		}).
		OrderBy("created_at DESC", "id DESC").
		PlaceholderFormat(sq.Dollar)

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		qb = qb.Where(sq.Eq{"event_type": types})
	}
	if filter.Before != nil {
		qb = qb.Where(sq.Lt{"created_at": filter.Before.UTC()})
	}
	if filter.Limit > 0 {
		qb = qb.Limit(uint64(filter.Limit))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build event history query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query event history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]model.Event, error) {
	var events []model.Event
	for rows.Next() {
		var (
			e          model.Event
			eventType  string
			targetType string
			targetID   string
			rawData    []byte
		)
		if err := rows.Scan(&e.ID, &eventType, &targetType, &targetID, &e.ActorID, &rawData, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}

		e.Type = enums.EventType(eventType)
		e.Target.Type = enums.EventTargetType(targetType)
		id, err := strconv.ParseInt(targetID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse event target id %q: %w", targetID, err)
		}
		e.Target.ID = id

		if len(rawData) > 0 {
			if err := json.Unmarshal(rawData, &e.Data); err != nil {
				return nil, fmt.Errorf("unmarshal event data: %w", err)
			}
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}
