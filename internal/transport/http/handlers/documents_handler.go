package handlers

import (
	"net/http"

	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/domain/enums"
	docsvc "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/services/documents"
	"github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/dto"
	httperrors "github.com/okatech-org/consulat-ga-core-bis-sub002/internal/transport/http/errors"
)

const maxUploadMemory = 32 << 20

type DocumentsHandler struct {
	service *docsvc.Service
}

func NewDocumentsHandler(service *docsvc.Service) *DocumentsHandler {
	return &DocumentsHandler{service: service}
}

// Upload accepts multipart form data with a "file" part and a "doc_type"
// field.
func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "multipart form data is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file part is required")
		return
	}
	defer file.Close()

	d, err := h.service.Upload(r.Context(), identity.UserID, docsvc.UploadInput{
		DocType:     enums.DocumentType(r.FormValue("doc_type")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
		Size:        header.Size,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, d)
}

func (h *DocumentsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	docs, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DocumentListResponse{Documents: docs})
}

func (h *DocumentsHandler) DownloadURL(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid document id")
		return
	}

	url, err := h.service.DownloadURL(r.Context(), identity.UserID, identity.Role, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.DocumentURLResponse{URL: url})
}

func (h *DocumentsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid document id")
		return
	}

	if err := h.service.Remove(r.Context(), identity.UserID, identity.Role, id); err != nil {
		handleServiceError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
