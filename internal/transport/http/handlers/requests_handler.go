package handlers

import (
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	reqsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/requests"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type RequestsHandler struct {
	service *reqsvc.Service
}

func NewRequestsHandler(service *reqsvc.Service) *RequestsHandler {
	return &RequestsHandler{service: service}
}

func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.RequestCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, reqsvc.CreateInput{
		OrgServiceID: req.OrgServiceID,
		Priority:     enums.RequestPriority(req.Priority),
		FormData:     req.FormData,
		Documents:    req.Documents,
		SubmitNow:    req.SubmitNow,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, created)
}

func (h *RequestsHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	var req dto.RequestUpdateDraftRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.service.UpdateDraft(r.Context(), identity.UserID, id, reqsvc.UpdateDraftInput{
		Priority:  enums.RequestPriority(req.Priority),
		FormData:  req.FormData,
		Documents: req.Documents,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, updated)
}

func (h *RequestsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	submitted, err := h.service.Submit(r.Context(), identity.UserID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, submitted)
}

func (h *RequestsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), identity.UserID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cancelled)
}

func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	req, err := h.service.Get(r.Context(), identity.UserID, identity.Role, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, req)
}

func (h *RequestsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.RequestListResponse{Requests: list})
}

func (h *RequestsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	var req dto.RequestSetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	updated, err := h.service.SetStatus(r.Context(), identity.UserID, identity.Role, id, enums.RequestStatus(req.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, updated)
}

func (h *RequestsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	var req dto.RequestAssignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	assigned, err := h.service.Assign(r.Context(), identity.UserID, identity.Role, id, req.AssigneeID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, assigned)
}
