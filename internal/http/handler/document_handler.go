package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	docService     *service.DocumentService
	maxUploadBytes int64
	logger         *zap.Logger
}

func NewDocumentHandler(docService *service.DocumentService, maxUploadSizeMB int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService:     docService,
		maxUploadBytes: maxUploadSizeMB * 1024 * 1024,
		logger:         logger,
	}
}

// Upload godoc
// @Summary Upload a document
// @Description Upload a file to a case as multipart form data under the "file" field
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Case ID"
// @Param file formData file true "Document file"
// @Success 201 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/documents [post]
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "File exceeds the upload size limit")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}
	if len(data) == 0 {
		respondWithError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	dto, err := h.docService.Upload(r.Context(), caseID, userCtx.UserID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to upload document")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// ListByCase godoc
// @Summary List case documents
// @Tags Documents
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {array} domain.DocumentDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/documents [get]
func (h *DocumentHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dtos, err := h.docService.ListByCase(r.Context(), caseID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a document record
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.DocumentDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.docService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get document")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Download godoc
// @Summary Download a document
// @Description Stream the document's content. Missing blobs yield a 404 JSON body.
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	// The storage layer writes error responses itself once streaming starts
	if err := h.docService.Download(r.Context(), id, w); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Resource not found")
			return
		}
		h.logger.Error("Document download failed", zap.Error(err))
	}
}

// SignedURL godoc
// @Summary Get a time-limited document URL
// @Description Returns a SAS URL. When no signing credential is configured the bare blob URL is returned and degraded is true.
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.SignedURLResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id}/url [get]
func (h *DocumentHandler) SignedURL(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.docService.SignedURL(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to generate document URL")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Analyze godoc
// @Summary Run AI analysis on a document
// @Description Analyze the document content, store the summary and move the blob to the processed container
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} domain.DocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id}/analyze [post]
func (h *DocumentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.docService.Analyze(r.Context(), id, userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to analyze document")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete godoc
// @Summary Delete a document
// @Tags Documents
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.docService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
