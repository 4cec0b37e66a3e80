package handler

import (
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type MedicalBillHandler struct {
	billService *service.MedicalBillService
	logger      *zap.Logger
}

func NewMedicalBillHandler(billService *service.MedicalBillService, logger *zap.Logger) *MedicalBillHandler {
	return &MedicalBillHandler{billService: billService, logger: logger}
}

// Create godoc
// @Summary Record a medical bill
// @Tags MedicalBills
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body domain.CreateMedicalBillRequest true "Bill payload"
// @Success 201 {object} domain.MedicalBillDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/bills [post]
func (h *MedicalBillHandler) Create(w http.ResponseWriter, r *http.Request) {
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateMedicalBillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.billService.Create(r.Context(), caseID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to record medical bill")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// ListByCase godoc
// @Summary List case medical bills
// @Tags MedicalBills
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {array} domain.MedicalBillDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/bills [get]
func (h *MedicalBillHandler) ListByCase(w http.ResponseWriter, r *http.Request) {
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dtos, err := h.billService.ListByCase(r.Context(), caseID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list medical bills")
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a medical bill
// @Tags MedicalBills
// @Produce json
// @Param id path string true "Bill ID"
// @Success 200 {object} domain.MedicalBillDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /bills/{id} [get]
func (h *MedicalBillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.billService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get medical bill")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Update godoc
// @Summary Update a medical bill
// @Tags MedicalBills
// @Accept json
// @Produce json
// @Param id path string true "Bill ID"
// @Param request body domain.UpdateMedicalBillRequest true "Bill payload"
// @Success 200 {object} domain.MedicalBillDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /bills/{id} [put]
func (h *MedicalBillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateMedicalBillRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.billService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update medical bill")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// Delete godoc
// @Summary Delete a medical bill
// @Tags MedicalBills
// @Param id path string true "Bill ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /bills/{id} [delete]
func (h *MedicalBillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.billService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete medical bill")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
