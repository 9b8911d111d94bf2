package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/rules"
	pgrepo "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/repo/postgres"
	authsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/auth"
	childsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/childprofiles"
	cvsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/cv"
	docsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/documents"
	eventsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/events"
	profilesvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/profiles"
	regsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/registrations"
	reqsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/requests"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeForbidden(w http.ResponseWriter) {
	httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: "FORBIDDEN", Message: "access denied"})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeConflict(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// handleServiceError maps service and repo sentinels onto the API error
// surface. Anything unmapped is a 500.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rules.ErrForbidden):
		writeForbidden(w)
	case errors.Is(err, authsvc.ErrUnauthorized):
		writeUnauthorized(w, "UNAUTHORIZED", "authentication failed")
	case errors.Is(err, pgrepo.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, pgrepo.ErrChildProfileNotFound):
		writeNotFound(w, "NOT_FOUND", "child profile not found")
	case errors.Is(err, pgrepo.ErrCVNotFound):
		writeNotFound(w, "NOT_FOUND", "cv not found")
	case errors.Is(err, pgrepo.ErrDocumentNotFound):
		writeNotFound(w, "NOT_FOUND", "document not found")
	case errors.Is(err, pgrepo.ErrRegistrationNotFound):
		writeNotFound(w, "NOT_FOUND", "registration not found")
	case errors.Is(err, pgrepo.ErrOrgNotFound), errors.Is(err, pgrepo.ErrOrgServiceNotFound):
		writeNotFound(w, "NOT_FOUND", "organization or service not found")
	case errors.Is(err, pgrepo.ErrRequestNotFound):
		writeNotFound(w, "NOT_FOUND", "request not found")
	case errors.Is(err, pgrepo.ErrUserNotFound):
		writeNotFound(w, "NOT_FOUND", "user not found")
	case errors.Is(err, pgrepo.ErrRegistrationExists):
		writeConflict(w, "ALREADY_EXISTS", "registration already exists for this organization")
	case isValidation(err):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case isInvalidArgument(err):
		writeBadRequest(w, "INVALID_ARGUMENT", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func isValidation(err error) bool {
	return errors.Is(err, profilesvc.ErrValidation) ||
		errors.Is(err, childsvc.ErrValidation) ||
		errors.Is(err, cvsvc.ErrValidation) ||
		errors.Is(err, eventsvc.ErrValidation) ||
		errors.Is(err, docsvc.ErrValidation) ||
		errors.Is(err, regsvc.ErrValidation) ||
		errors.Is(err, reqsvc.ErrValidation)
}

func isInvalidArgument(err error) bool {
	return errors.Is(err, profilesvc.ErrInvalidArgument) ||
		errors.Is(err, childsvc.ErrInvalidArgument) ||
		errors.Is(err, cvsvc.ErrInvalidArgument) ||
		errors.Is(err, eventsvc.ErrInvalidArgument) ||
		errors.Is(err, regsvc.ErrInvalidArgument) ||
		errors.Is(err, reqsvc.ErrInvalidArgument)
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// indexParam parses a list index without judging it. Bounds, including
// negative values, are the service's call.
func indexParam(r *http.Request, name string) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, false
	}
	return index, true
}
