package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// EventTarget is the typed form of the polymorphic (targetType, targetId)
// pair. The id is stringified only at the storage boundary.
type EventTarget struct {
	Type enums.EventTargetType `json:"type"`
	ID   int64                 `json:"id"`
}

// Event is an append-only audit record. A nil ActorID means the event was
// system-generated. Events are never updated or deleted after insert.
type Event struct {
	ID        int64           `json:"id"`
	Target    EventTarget     `json:"target"`
	ActorID   *int64          `json:"actor_id"`
	Type      enums.EventType `json:"type"`
	Data      map[string]any  `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// Note is the read-model projection of a note_added event.
type Note struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	Author     *Actor    `json:"author"`
	CreatedAt  time.Time `json:"created_at"`
}

// Actor is the resolved view of an event's acting user.
type Actor struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}
