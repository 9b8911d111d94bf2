package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	eventsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/events"
)

type NoteCreateRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

type HistoryResponse struct {
	Events []eventsvc.HistoryEntry `json:"events"`
}

type NotesResponse struct {
	Notes []model.Note `json:"notes"`
}
