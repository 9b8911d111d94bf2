package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	profilesvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.ProfileUpsertRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	p, err := h.service.Upsert(r.Context(), identity.UserID, profilesvc.UpsertInput{
		ProfileType:        enums.ProfileType(req.ProfileType),
		IsNational:         req.IsNational,
		CountryOfResidence: req.CountryOfResidence,
		Identity:           req.Identity,
		PassportInfo:       req.PassportInfo,
		Addresses:          req.Addresses,
		Contacts:           req.Contacts,
		EmergencyContacts:  req.EmergencyContacts,
		Family:             req.Family,
		Profession:         req.Profession,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

func (h *ProfileHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetMine(r.Context(), identity.UserID)
	if err != nil {
		// Not having a profile yet is a normal state for the caller.
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			httperrors.Write(w, http.StatusOK, nil)
			return
		}
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	p, err := h.service.Get(r.Context(), identity.UserID, identity.Role, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

// UpdateSection merges a partial payload into one named section. The body
// is the section payload itself, not an envelope.
func (h *ProfileHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	section := chi.URLParam(r, "section")

	var data map[string]any
	if err := decodeJSON(r, &data); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	p, err := h.service.UpdateSection(r.Context(), identity.UserID, section, data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

func (h *ProfileHandler) ReplaceEmergencyContacts(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.EmergencyContactsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	p, err := h.service.ReplaceEmergencyContacts(r.Context(), identity.UserID, req.Contacts)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

func (h *ProfileHandler) AddDocument(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.DocumentLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	p, err := h.service.AddDocument(r.Context(), identity.UserID, req.DocType, req.DocumentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}

func (h *ProfileHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.DocumentLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	p, err := h.service.RemoveDocument(r.Context(), identity.UserID, req.DocType, req.DocumentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, p)
}
