package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// Document is the metadata row for an uploaded file; the bytes live in
// object storage under ObjectKey.
type Document struct {
	ID          int64              `json:"id"`
	OwnerUserID int64              `json:"owner_user_id"`
	DocType     enums.DocumentType `json:"doc_type"`
	FileName    string             `json:"file_name"`
	ObjectKey   string             `json:"-"`
	ContentType string             `json:"content_type"`
	SizeBytes   int64              `json:"size_bytes"`
	CreatedAt   time.Time          `json:"created_at"`
}
