package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidArgument = errors.New("invalid argument")
)

type EventStore interface {
	Append(ctx context.Context, e model.Event) (int64, error)
	ListByTarget(ctx context.Context, target model.EventTarget, filter pgrepo.EventFilter) ([]model.Event, error)
}

type UserStore interface {
	ListByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}

// Service reads the append-only audit stream and projects notes out of it.
// It never mutates events; writers append through the repos that own the
// target entities.
type Service struct {
	events EventStore
	users  UserStore
	now    func() time.Time
}

func NewService(events EventStore, users UserStore) *Service {
	return &Service{
		events: events,
		users:  users,
		now:    time.Now,
	}
}

const defaultHistoryLimit = 50

// HistoryEntry is an event with its actor resolved. Actor stays nil for
// system events and for actors that no longer resolve to a user row.
type HistoryEntry struct {
	Event model.Event  `json:"event"`
	Actor *model.Actor `json:"actor"`
}

type HistoryFilter struct {
	Types  []enums.EventType
	Before *time.Time
	Limit  int
}

// History returns a target's audit trail newest first, with actors
// resolved in one batch.
func (s *Service) History(ctx context.Context, target model.EventTarget, filter HistoryFilter) ([]HistoryEntry, error) {
	if !target.Type.Valid() {
		return nil, fmt.Errorf("unknown target type %q: %w", target.Type, ErrInvalidArgument)
	}
	if target.ID <= 0 {
		return nil, fmt.Errorf("invalid target id: %w", ErrValidation)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	list, err := s.events.ListByTarget(ctx, target, pgrepo.EventFilter{
		Types:  filter.Types,
		Before: filter.Before,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	actors, err := s.resolveActors(ctx, list)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(list))
	for _, e := range list {
		entry := HistoryEntry{Event: e}
		if e.ActorID != nil {
			if actor, ok := actors[*e.ActorID]; ok {
				entry.Actor = &actor
			}
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// AddNote appends a note_added event on the target. Internal notes are
// staff-only, both to write and later to read.
func (s *Service) AddNote(ctx context.Context, actorID int64, actorRole string, target model.EventTarget, content string, isInternal bool) (model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Note{}, fmt.Errorf("note content is required: %w", ErrValidation)
	}
	if !target.Type.Valid() {
		return model.Note{}, fmt.Errorf("unknown target type %q: %w", target.Type, ErrInvalidArgument)
	}
	if target.ID <= 0 {
		return model.Note{}, fmt.Errorf("invalid target id: %w", ErrValidation)
	}
	if isInternal && !rules.IsStaff(actorRole) {
		return model.Note{}, rules.ErrForbidden
	}

	createdAt := s.now().UTC()
	id, err := s.events.Append(ctx, model.Event{
		Target:  target,
		ActorID: &actorID,
		Type:    enums.EventNoteAdded,
		Data: map[string]any{
			"content":     content,
			"is_internal": isInternal,
		},
		CreatedAt: createdAt,
	})
	if err != nil {
		return model.Note{}, err
	}

	note := model.Note{
		ID:         id,
		Content:    content,
		IsInternal: isInternal,
		CreatedAt:  createdAt,
	}
	if actor := s.lookupActor(ctx, actorID); actor != nil {
		note.Author = actor
	}
	return note, nil
}

// Notes projects the note_added events of a target into notes, newest
// first. Internal notes are filtered out for non-staff callers.
func (s *Service) Notes(ctx context.Context, callerRole string, target model.EventTarget) ([]model.Note, error) {
	if !target.Type.Valid() {
		return nil, fmt.Errorf("unknown target type %q: %w", target.Type, ErrInvalidArgument)
	}
	if target.ID <= 0 {
		return nil, fmt.Errorf("invalid target id: %w", ErrValidation)
	}

	list, err := s.events.ListByTarget(ctx, target, pgrepo.EventFilter{
		Types: []enums.EventType{enums.EventNoteAdded},
	})
	if err != nil {
		return nil, err
	}

	actors, err := s.resolveActors(ctx, list)
	if err != nil {
		return nil, err
	}

	staff := rules.IsStaff(callerRole)
	notes := make([]model.Note, 0, len(list))
	for _, e := range list {
		note := noteFromEvent(e)
		if note.IsInternal && !staff {
			continue
		}
		if e.ActorID != nil {
			if actor, ok := actors[*e.ActorID]; ok {
				note.Author = &actor
			}
		}
		notes = append(notes, note)
	}

	return notes, nil
}

func noteFromEvent(e model.Event) model.Note {
	note := model.Note{ID: e.ID, CreatedAt: e.CreatedAt}
	if content, ok := e.Data["content"].(string); ok {
		note.Content = content
	}
	if internal, ok := e.Data["is_internal"].(bool); ok {
		note.IsInternal = internal
	}
	return note
}

func (s *Service) resolveActors(ctx context.Context, list []model.Event) (map[int64]model.Actor, error) {
	seen := map[int64]struct{}{}
	var ids []int64
	for _, e := range list {
		if e.ActorID == nil {
			continue
		}
		if _, ok := seen[*e.ActorID]; ok {
			continue
		}
		seen[*e.ActorID] = struct{}{}
		ids = append(ids, *e.ActorID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve event actors: %w", err)
	}

	actors := make(map[int64]model.Actor, len(users))
	for _, u := range users {
		actors[u.ID] = model.Actor{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      string(u.Role),
		}
	}
	return actors, nil
}

func (s *Service) lookupActor(ctx context.Context, actorID int64) *model.Actor {
	users, err := s.users.ListByIDs(ctx, []int64{actorID})
	if err != nil || len(users) == 0 {
		return nil
	}
	u := users[0]
	return &model.Actor{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
	}
}
