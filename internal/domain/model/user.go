package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// User mirrors the identity-provider account. Authentication itself lives
// outside this core; only the subject mapping and role are kept here.
type User struct {
	ID         int64      `json:"id"`
	ExternalID string     `json:"external_id"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Role       enums.Role `json:"role"`
	CreatedAt  time.Time  `json:"created_at"`
}
