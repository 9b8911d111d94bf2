package handlers

import (
	"context"
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type CatalogStore interface {
	GetByID(ctx context.Context, id int64) (model.Org, error)
	ListOrgs(ctx context.Context) ([]model.Org, error)
	ListServicesForOrg(ctx context.Context, orgID int64) ([]model.Service, error)
}

// CatalogHandler serves the read-only organization catalog.
type CatalogHandler struct {
	store CatalogStore
}

func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) ListOrgs(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.store.ListOrgs(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, orgs)
}

func (h *CatalogHandler) GetOrg(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid organization id")
		return
	}

	org, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, org)
}

func (h *CatalogHandler) ListOrgServices(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid organization id")
		return
	}

	services, err := h.store.ListServicesForOrg(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, services)
}
