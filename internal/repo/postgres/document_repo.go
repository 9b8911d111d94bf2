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

var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *DocumentRepo {
	return &DocumentRepo{pool: pool}
}

const documentColumns = `id, owner_user_id, doc_type, file_name, content_type, size_bytes, object_key, created_at`

func scanDocument(row pgx.Row) (model.Document, error) {
	var (
		d       model.Document
		docType string
	)
	err := row.Scan(&d.ID, &d.OwnerUserID, &docType, &d.FileName, &d.ContentType, &d.SizeBytes, &d.ObjectKey, &d.CreatedAt)
	if err != nil {
		return model.Document{}, err
	}
	d.DocType = enums.DocumentType(docType)
	return d, nil
}

func (r *DocumentRepo) Insert(ctx context.Context, d model.Document) (model.Document, error) {
	if r.pool == nil {
		return model.Document{}, fmt.Errorf("postgres pool is nil")
	}

	const query = `
INSERT INTO documents (
	owner_user_id,
	doc_type,
	file_name,
	content_type,
	size_bytes,
	object_key
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, owner_user_id, doc_type, file_name, content_type, size_bytes, object_key, created_at
`

	saved, err := scanDocument(r.pool.QueryRow(
		ctx,
		query,
		d.OwnerUserID,
		string(d.DocType),
		d.FileName,
		d.ContentType,
		d.SizeBytes,
		d.ObjectKey,
	))
	if err != nil {
		return model.Document{}, fmt.Errorf("insert document: %w", err)
	}

	return saved, nil
}

func (r *DocumentRepo) GetByID(ctx context.Context, id int64) (model.Document, error) {
	if r.pool == nil {
		return model.Document{}, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	d, err := scanDocument(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Document{}, ErrDocumentNotFound
		}
		return model.Document{}, fmt.Errorf("get document by id: %w", err)
	}

	return d, nil
}

func (r *DocumentRepo) ListByOwner(ctx context.Context, ownerUserID int64) ([]model.Document, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	query := `SELECT ` + documentColumns + `
FROM documents
WHERE owner_user_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("list documents by owner: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
