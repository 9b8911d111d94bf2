package handlers

import (
	"context"
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/model"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

type MeStore interface {
	GetByID(ctx context.Context, id int64) (model.User, error)
}

type MeHandler struct {
	store MeStore
}

func NewMeHandler(store MeStore) *MeHandler {
	return &MeHandler{store: store}
}

func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	u, err := h.store.GetByID(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, u)
}
