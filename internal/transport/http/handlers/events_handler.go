package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	eventsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/events"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type EventsHandler struct {
	service *eventsvc.Service
}

func NewEventsHandler(service *eventsvc.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

// History serves GET /{target_type}/{id}/events with optional
// types, before and limit query parameters.
func (h *EventsHandler) History(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	target, ok := targetFromRequest(w, r)
	if !ok {
		return
	}

	filter := eventsvc.HistoryFilter{}
	if raw := r.URL.Query().Get("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			filter.Types = append(filter.Types, enums.EventType(strings.TrimSpace(t)))
		}
	}
	if raw := r.URL.Query().Get("before"); raw != "" {
		before, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "before must be RFC3339")
			return
		}
		filter.Before = &before
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}

	entries, err := h.service.History(r.Context(), target, filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.HistoryResponse{Events: entries})
}

func (h *EventsHandler) Notes(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	target, ok := targetFromRequest(w, r)
	if !ok {
		return
	}

	notes, err := h.service.Notes(r.Context(), identity.Role, target)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NotesResponse{Notes: notes})
}

func (h *EventsHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	target, ok := targetFromRequest(w, r)
	if !ok {
		return
	}

	var req dto.NoteCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	note, err := h.service.AddNote(r.Context(), identity.UserID, identity.Role, target, req.Content, req.IsInternal)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, note)
}

func targetFromRequest(w http.ResponseWriter, r *http.Request) (model.EventTarget, bool) {
	targetType := enums.EventTargetType(chi.URLParam(r, "target_type"))
	id, ok := idParam(r, "id")
	if !targetType.Valid() || !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid event target")
		return model.EventTarget{}, false
	}
	return model.EventTarget{Type: targetType, ID: id}, true
}
