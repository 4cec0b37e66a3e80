package handler

import (
	"net/http"
	"strconv"

	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type CaseHandler struct {
	caseService *service.CaseService
	logger      *zap.Logger
}

func NewCaseHandler(caseService *service.CaseService, logger *zap.Logger) *CaseHandler {
	return &CaseHandler{caseService: caseService, logger: logger}
}

// List godoc
// @Summary List cases
// @Description Get a paginated list of cases with optional filters
// @Tags Cases
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 100)" default(20)
// @Param status query string false "Filter by status" Enums(active, closed, pending)
// @Param search query string false "Search by client name or case number"
// @Success 200 {object} service.CaseListResult
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /cases [get]
func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.CaseStatus
	if s := r.URL.Query().Get("status"); s != "" {
		cs := domain.CaseStatus(s)
		status = &cs
	}

	result, err := h.caseService.List(r.Context(), page, pageSize, status, r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list cases")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create godoc
// @Summary Create a case
// @Tags Cases
// @Accept json
// @Produce json
// @Param request body domain.CreateCaseRequest true "Case payload"
// @Success 201 {object} domain.CaseDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /cases [post]
func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req domain.CreateCaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.caseService.Create(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create case")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// Get godoc
// @Summary Get a case
// @Tags Cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} domain.CaseDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id} [get]
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.caseService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get case")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Update godoc
// @Summary Update a case
// @Tags Cases
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body domain.UpdateCaseRequest true "Case payload"
// @Success 200 {object} domain.CaseDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id} [put]
func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateCaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.caseService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update case")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete godoc
// @Summary Delete a case
// @Description Delete a case, its records and its stored documents
// @Tags Cases
// @Param id path string true "Case ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id} [delete]
func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.caseService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete case")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
