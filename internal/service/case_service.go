package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
)

// CaseListResult is a page of cases with the total count
type CaseListResult struct {
	Cases    []domain.CaseDTO `json:"cases"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// CaseService handles case lifecycle operations
type CaseService struct {
	caseRepo *repository.CaseRepository
	docRepo  *repository.DocumentRepository
	storage  BlobStore
	logger   *zap.Logger
}

func NewCaseService(
	caseRepo *repository.CaseRepository,
	docRepo *repository.DocumentRepository,
	storage BlobStore,
	logger *zap.Logger,
) *CaseService {
	return &CaseService{
		caseRepo: caseRepo,
		docRepo:  docRepo,
		storage:  storage,
		logger:   logger,
	}
}

// Create registers a new case for the authenticated user
func (s *CaseService) Create(ctx context.Context, userID uuid.UUID, req *domain.CreateCaseRequest) (*domain.CaseDTO, error) {
	exists, err := s.caseRepo.CaseNumberExists(ctx, req.CaseNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check case number: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: case number already in use", ErrConflict)
	}

	c := &domain.Case{
		ClientName:  req.ClientName,
		CaseNumber:  req.CaseNumber,
		CaseType:    domain.CaseTypeOther,
		Status:      domain.CaseStatusActive,
		Description: req.Description,
		CreatedByID: userID,
	}
	if req.CaseType != "" {
		c.CaseType = domain.CaseType(req.CaseType)
	}
	if req.Status != "" {
		c.Status = domain.CaseStatus(req.Status)
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create case: %w", err)
	}

	s.logger.Info("Case created",
		zap.String("case_id", c.ID.String()),
		zap.String("case_number", c.CaseNumber),
	)

	dto := mapper.ToCaseDTO(c, 0, 0)
	return &dto, nil
}

// GetByID returns a case with its aggregates
func (s *CaseService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CaseDTO, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}
	return s.toDTO(ctx, c)
}

// List returns a page of cases
func (s *CaseService) List(ctx context.Context, page, pageSize int, status *domain.CaseStatus, search string) (*CaseListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	cases, total, err := s.caseRepo.List(ctx, page, pageSize, status, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}

	dtos := make([]domain.CaseDTO, 0, len(cases))
	for i := range cases {
		dto, err := s.toDTO(ctx, &cases[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}

	return &CaseListResult{Cases: dtos, Total: total, Page: page, PageSize: pageSize}, nil
}

// Update modifies a case's mutable fields
func (s *CaseService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateCaseRequest) (*domain.CaseDTO, error) {
	c, err := s.caseRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	c.ClientName = req.ClientName
	c.Description = req.Description
	if req.CaseType != "" {
		c.CaseType = domain.CaseType(req.CaseType)
	}
	if req.Status != "" {
		c.Status = domain.CaseStatus(req.Status)
	}

	if err := s.caseRepo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to update case: %w", err)
	}

	return s.toDTO(ctx, c)
}

// Delete removes a case, its database children and, best effort, the blobs
// behind its documents. Blob cleanup failures are logged, never propagated;
// the database remains the source of truth.
func (s *CaseService) Delete(ctx context.Context, id uuid.UUID) error {
	docs, err := s.docRepo.ListByCase(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list case documents: %w", err)
	}

	if err := s.caseRepo.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete case: %w", err)
	}

	for _, doc := range docs {
		if err := s.storage.Delete(ctx, doc.Container, doc.BlobName); err != nil {
			s.logger.Warn("Failed to delete document blob during case cleanup",
				zap.String("case_id", id.String()),
				zap.String("blob", doc.BlobName),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Case deleted",
		zap.String("case_id", id.String()),
		zap.Int("documents_cleaned", len(docs)),
	)
	return nil
}

func (s *CaseService) toDTO(ctx context.Context, c *domain.Case) (*domain.CaseDTO, error) {
	docCount, err := s.caseRepo.DocumentCount(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	billTotal, err := s.caseRepo.BillTotal(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum bills: %w", err)
	}
	dto := mapper.ToCaseDTO(c, docCount, billTotal)
	return &dto, nil
}
