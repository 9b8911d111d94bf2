package handlers

import (
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	childsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/childprofiles"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type ChildProfileHandler struct {
	service *childsvc.Service
}

func NewChildProfileHandler(service *childsvc.Service) *ChildProfileHandler {
	return &ChildProfileHandler{service: service}
}

func (h *ChildProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.ChildProfileCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.Create(r.Context(), identity.UserID, childsvc.CreateInput{
		Identity:           req.Identity,
		CountryOfResidence: req.CountryOfResidence,
		NIPCode:            req.NIPCode,
		Parents:            req.Parents,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, cp)
}

func (h *ChildProfileHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	list, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, list)
}

func (h *ChildProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	cp, err := h.service.Get(r.Context(), identity.UserID, identity.Role, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	var req dto.ChildProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.Update(r.Context(), identity.UserID, id, childsvc.UpdateInput{
		Identity:           req.Identity,
		CountryOfResidence: req.CountryOfResidence,
		NIPCode:            req.NIPCode,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) UpdatePassport(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	var passport model.PassportInfo
	if err := decodeJSON(r, &passport); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.UpdatePassport(r.Context(), identity.UserID, id, passport)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) UpdateConsularCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	var card model.ConsularCard
	if err := decodeJSON(r, &card); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.UpdateConsularCard(r.Context(), identity.UserID, id, card)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) SetParents(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	var req dto.ChildParentsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.SetParents(r.Context(), identity.UserID, id, req.Parents)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) LinkDocument(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	var req dto.ChildDocumentLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	cp, err := h.service.LinkDocument(r.Context(), identity.UserID, id, enums.ChildDocumentType(req.DocType), req.DocumentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	cp, err := h.service.Submit(r.Context(), identity.UserID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}

func (h *ChildProfileHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid child profile id")
		return
	}

	cp, err := h.service.Remove(r.Context(), identity.UserID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, cp)
}
