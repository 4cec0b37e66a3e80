package handler

import (
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type DemandLetterHandler struct {
	letterService *service.DemandLetterService
	logger        *zap.Logger
}

func NewDemandLetterHandler(letterService *service.DemandLetterService, logger *zap.Logger) *DemandLetterHandler {
	return &DemandLetterHandler{letterService: letterService, logger: logger}
}

// Generate godoc
// @Summary Generate a demand letter
// @Description Draft a demand letter from the case record, document summaries and medical bills
// @Tags DemandLetters
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body domain.GenerateDemandLetterRequest true "Generation payload"
// @Success 201 {object} domain.DemandLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/demand-letters [post]
func (h *DemandLetterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.GenerateDemandLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.letterService.Generate(r.Context(), caseID, userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to generate demand letter")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// ListByCase godoc
// @Summary List a case's demand letters
// @Tags DemandLetters
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {array} domain.DemandLetterDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/demand-letters [get]
func (h *DemandLetterHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dtos, err := h.letterService.ListByCase(r.Context(), caseID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list demand letters")
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a demand letter
// @Tags DemandLetters
// @Produce json
// @Param id path string true "Letter ID"
// @Success 200 {object} domain.DemandLetterDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /demand-letters/{id} [get]
func (h *DemandLetterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.letterService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get demand letter")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Update godoc
// @Summary Edit a demand letter
// @Tags DemandLetters
// @Accept json
// @Produce json
// @Param id path string true "Letter ID"
// @Param request body domain.UpdateDemandLetterRequest true "Letter payload"
// @Success 200 {object} domain.DemandLetterDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /demand-letters/{id} [put]
func (h *DemandLetterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateDemandLetterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.letterService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update demand letter")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete godoc
// @Summary Delete a demand letter
// @Tags DemandLetters
// @Param id path string true "Letter ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /demand-letters/{id} [delete]
func (h *DemandLetterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.letterService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete demand letter")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
