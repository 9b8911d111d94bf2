package dto

import (
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
)

type RequestCreateRequest struct {
	OrgServiceID int64          `json:"org_service_id"`
	Priority     string         `json:"priority"`
	FormData     map[string]any `json:"form_data"`
	Documents    []int64        `json:"documents"`
	SubmitNow    bool           `json:"submit_now"`
}

type RequestUpdateDraftRequest struct {
	Priority  string         `json:"priority"`
	FormData  map[string]any `json:"form_data"`
	Documents []int64        `json:"documents"`
}

type RequestSetStatusRequest struct {
	Status string `json:"status"`
}

type RequestAssignRequest struct {
	AssigneeID int64 `json:"assignee_id"`
}

type RequestListResponse struct {
	Requests []model.Request `json:"requests"`
}
