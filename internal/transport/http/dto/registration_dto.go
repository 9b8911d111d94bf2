package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

type RegistrationCreateRequest struct {
	OrgID    int64  `json:"org_id"`
	Type     string `json:"type"`
	Duration string `json:"duration"`
}

type RegistrationListResponse struct {
	Registrations []model.Registration `json:"registrations"`
}
