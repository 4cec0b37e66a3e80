package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// CaseRepository handles database operations for cases
type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c *domain.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Case, error) {
	var c domain.Case
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) CaseNumberExists(ctx context.Context, caseNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Case{}).Where("case_number = ?", caseNumber).Count(&count).Error
	return count > 0, err
}

// List returns a page of cases with the total count. Status and search
// filters are optional.
func (r *CaseRepository) List(ctx context.Context, page, pageSize int, status *domain.CaseStatus, search string) ([]domain.Case, int64, error) {
	var cases []domain.Case
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Case{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("client_name ILIKE ? OR case_number ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&cases).Error
	if err != nil {
		return nil, 0, err
	}

	return cases, total, nil
}

func (r *CaseRepository) Update(ctx context.Context, c *domain.Case) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a case. Owned documents, bills, chat sessions and demand
// letters cascade at the database level.
func (r *CaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Case{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DocumentCount returns the number of documents attached to a case
func (r *CaseRepository) DocumentCount(ctx context.Context, caseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Document{}).Where("case_id = ?", caseID).Count(&count).Error
	return count, err
}

// BillTotal returns the sum of medical bill amounts for a case
func (r *CaseRepository) BillTotal(ctx context.Context, caseID uuid.UUID) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.MedicalBill{}).
		Where("case_id = ?", caseID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
