package handlers

import (
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	regsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/registrations"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type RegistrationsHandler struct {
	service *regsvc.Service
}

func NewRegistrationsHandler(service *regsvc.Service) *RegistrationsHandler {
	return &RegistrationsHandler{service: service}
}

func (h *RegistrationsHandler) Request(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.RegistrationCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	reg, err := h.service.Request(r.Context(), identity.UserID, regsvc.RequestInput{
		OrgID:    req.OrgID,
		Type:     enums.RegistrationType(req.Type),
		Duration: enums.RegistrationDuration(req.Duration),
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, reg)
}

func (h *RegistrationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	regs, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.RegistrationListResponse{Registrations: regs})
}

func (h *RegistrationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid registration id")
		return
	}

	reg, err := h.service.Get(r.Context(), identity.UserID, identity.Role, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, reg)
}

func (h *RegistrationsHandler) Activate(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid registration id")
		return
	}

	reg, err := h.service.Activate(r.Context(), identity.UserID, identity.Role, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, reg)
}
