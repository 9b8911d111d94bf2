package handlers

import (
	"errors"
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	cvsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type CVHandler struct {
	service *cvsvc.Service
}

func NewCVHandler(service *cvsvc.Service) *CVHandler {
	return &CVHandler{service: service}
}

func (h *CVHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	doc, err := h.service.GetMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	doc, err := h.service.Get(r.Context(), identity.UserID, identity.Role, userID)
	if err != nil {
		// The query side answers null for absent and private CVs alike.
		if errors.Is(err, pgrepo.ErrCVNotFound) {
			httperrors.Write(w, http.StatusOK, nil)
			return
		}
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) UpdateBasics(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req dto.CVBasicsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.UpdateBasics(r.Context(), identity.UserID, cvsvc.BasicsInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Title:          req.Title,
		Objective:      req.Objective,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		Summary:        req.Summary,
		Hobbies:        req.Hobbies,
		PortfolioURL:   req.PortfolioURL,
		LinkedinURL:    req.LinkedinURL,
		PreferredTheme: req.PreferredTheme,
		CVLanguage:     req.CVLanguage,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	doc, err := h.service.ToggleVisibility(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var exp model.Experience
	if err := decodeJSON(r, &exp); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.AddExperience(r.Context(), identity.UserID, exp)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) UpdateExperience(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	var exp model.Experience
	if err := decodeJSON(r, &exp); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.UpdateExperience(r.Context(), identity.UserID, index, exp)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	doc, err := h.service.RemoveExperience(r.Context(), identity.UserID, index)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var edu model.Education
	if err := decodeJSON(r, &edu); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.AddEducation(r.Context(), identity.UserID, edu)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) UpdateEducation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	var edu model.Education
	if err := decodeJSON(r, &edu); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.UpdateEducation(r.Context(), identity.UserID, index, edu)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	doc, err := h.service.RemoveEducation(r.Context(), identity.UserID, index)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) AddSkill(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var skill model.Skill
	if err := decodeJSON(r, &skill); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.AddSkill(r.Context(), identity.UserID, skill)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) UpdateSkill(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	var skill model.Skill
	if err := decodeJSON(r, &skill); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.UpdateSkill(r.Context(), identity.UserID, index, skill)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) RemoveSkill(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	doc, err := h.service.RemoveSkill(r.Context(), identity.UserID, index)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) AddLanguage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var lang model.Language
	if err := decodeJSON(r, &lang); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.AddLanguage(r.Context(), identity.UserID, lang)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	var lang model.Language
	if err := decodeJSON(r, &lang); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.service.UpdateLanguage(r.Context(), identity.UserID, index, lang)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}

func (h *CVHandler) RemoveLanguage(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	index, ok := indexParam(r, "index")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid list index")
		return
	}

	doc, err := h.service.RemoveLanguage(r.Context(), identity.UserID, index)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, doc)
}
