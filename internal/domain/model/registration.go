package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// Registration is a consular registration of a profile with an organization.
// It is its own entity rather than an array embedded in Profile.
type Registration struct {
	ID                 int64                      `json:"id"`
	ProfileID          int64                      `json:"profile_id"`
	OrgID              int64                      `json:"org_id"`
	RegistrationNumber string                     `json:"registration_number"`
	Type               enums.RegistrationType     `json:"type"`
	Duration           enums.RegistrationDuration `json:"duration"`
	Status             enums.RegistrationStatus   `json:"status"`
	RegisteredAt       time.Time                  `json:"registered_at"`
	ExpiresAt          *time.Time                 `json:"expires_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}
