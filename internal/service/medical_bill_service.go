package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
)

// MedicalBillService handles medical bill tracking
type MedicalBillService struct {
	billRepo *repository.MedicalBillRepository
	caseRepo *repository.CaseRepository
	docRepo  *repository.DocumentRepository
	logger   *zap.Logger
}

func NewMedicalBillService(
	billRepo *repository.MedicalBillRepository,
	caseRepo *repository.CaseRepository,
	docRepo *repository.DocumentRepository,
	logger *zap.Logger,
) *MedicalBillService {
	return &MedicalBillService{
		billRepo: billRepo,
		caseRepo: caseRepo,
		docRepo:  docRepo,
		logger:   logger,
	}
}

// Create records a medical bill against a case. A linked document, when
// given, must belong to the same case.
func (s *MedicalBillService) Create(ctx context.Context, caseID uuid.UUID, req *domain.CreateMedicalBillRequest) (*domain.MedicalBillDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	if req.DocumentID != nil {
		doc, err := s.docRepo.GetByID(ctx, *req.DocumentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, fmt.Errorf("%w: linked document not found", ErrInvalidInput)
			}
			return nil, fmt.Errorf("failed to get linked document: %w", err)
		}
		if doc.CaseID != caseID {
			return nil, fmt.Errorf("%w: linked document belongs to a different case", ErrInvalidInput)
		}
	}

	bill := &domain.MedicalBill{
		CaseID:     caseID,
		DocumentID: req.DocumentID,
		Provider:   req.Provider,
		Treatment:  req.Treatment,
		Amount:     req.Amount,
		Status:     domain.BillStatusPending,
	}
	if req.Status != "" {
		bill.Status = domain.BillStatus(req.Status)
	}

	var err error
	if bill.ServiceDate, err = parseDate(req.ServiceDate); err != nil {
		return nil, fmt.Errorf("%w: invalid service date", ErrInvalidInput)
	}
	if bill.BillingDate, err = parseDate(req.BillingDate); err != nil {
		return nil, fmt.Errorf("%w: invalid billing date", ErrInvalidInput)
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to create medical bill: %w", err)
	}

	s.logger.Info("Medical bill recorded",
		zap.String("bill_id", bill.ID.String()),
		zap.String("case_id", caseID.String()),
		zap.Float64("amount", bill.Amount),
	)

	dto := mapper.ToMedicalBillDTO(bill)
	return &dto, nil
}

// GetByID returns a medical bill
func (s *MedicalBillService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MedicalBillDTO, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical bill: %w", err)
	}
	dto := mapper.ToMedicalBillDTO(bill)
	return &dto, nil
}

// ListByCase returns all bills for a case
func (s *MedicalBillService) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.MedicalBillDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	bills, err := s.billRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical bills: %w", err)
	}

	dtos := make([]domain.MedicalBillDTO, len(bills))
	for i := range bills {
		dtos[i] = mapper.ToMedicalBillDTO(&bills[i])
	}
	return dtos, nil
}

// Update modifies a medical bill
func (s *MedicalBillService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateMedicalBillRequest) (*domain.MedicalBillDTO, error) {
	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get medical bill: %w", err)
	}

	bill.Provider = req.Provider
	bill.Treatment = req.Treatment
	bill.Amount = req.Amount
	if req.Status != "" {
		bill.Status = domain.BillStatus(req.Status)
	}
	if bill.ServiceDate, err = parseDate(req.ServiceDate); err != nil {
		return nil, fmt.Errorf("%w: invalid service date", ErrInvalidInput)
	}
	if bill.BillingDate, err = parseDate(req.BillingDate); err != nil {
		return nil, fmt.Errorf("%w: invalid billing date", ErrInvalidInput)
	}

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to update medical bill: %w", err)
	}

	dto := mapper.ToMedicalBillDTO(bill)
	return &dto, nil
}

// Delete removes a medical bill
func (s *MedicalBillService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.billRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete medical bill: %w", err)
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
