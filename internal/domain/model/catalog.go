package model

import (
	"time"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
)

// Catalog entities are consumed by this core but never mutated by it.

type Org struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	CountryCode string              `json:"country_code"`
	City        string              `json:"city"`
	Status      enums.ServiceStatus `json:"status"`
}

type Service struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Category    enums.ServiceCategory `json:"category"`
	Description string                `json:"description"`
}

// OrgService is a service as offered by one organization.
type OrgService struct {
	ID        int64 `json:"id"`
	OrgID     int64 `json:"org_id"`
	ServiceID int64 `json:"service_id"`
	IsActive  bool  `json:"is_active"`
}

// Request is a citizen's service request against an org service.
type Request struct {
	ID           int64                 `json:"id"`
	Reference    string                `json:"reference"`
	UserID       int64                 `json:"user_id"`
	OrgID        int64                 `json:"org_id"`
	OrgServiceID int64                 `json:"org_service_id"`
	Status       enums.RequestStatus   `json:"status"`
	Priority     enums.RequestPriority `json:"priority"`
	FormData     map[string]any        `json:"form_data"`
	Documents    []int64               `json:"documents"`
	AssignedTo   *int64                `json:"assigned_to"`
	SubmittedAt  *time.Time            `json:"submitted_at"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}
