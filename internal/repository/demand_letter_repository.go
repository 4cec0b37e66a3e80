package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// DemandLetterRepository handles database operations for demand letters
type DemandLetterRepository struct {
	db *gorm.DB
}

func NewDemandLetterRepository(db *gorm.DB) *DemandLetterRepository {
	return &DemandLetterRepository{db: db}
}

func (r *DemandLetterRepository) Create(ctx context.Context, letter *domain.DemandLetter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

func (r *DemandLetterRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DemandLetter, error) {
	var letter domain.DemandLetter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&letter).Error; err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *DemandLetterRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.DemandLetter, error) {
	var letters []domain.DemandLetter
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&letters).Error
	if err != nil {
		return nil, err
	}
	return letters, nil
}

func (r *DemandLetterRepository) Update(ctx context.Context, letter *domain.DemandLetter) error {
	return r.db.WithContext(ctx).Save(letter).Error
}

func (r *DemandLetterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.DemandLetter{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
