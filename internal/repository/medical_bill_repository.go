package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// MedicalBillRepository handles database operations for medical bills
type MedicalBillRepository struct {
	db *gorm.DB
}

func NewMedicalBillRepository(db *gorm.DB) *MedicalBillRepository {
	return &MedicalBillRepository{db: db}
}

func (r *MedicalBillRepository) Create(ctx context.Context, bill *domain.MedicalBill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *MedicalBillRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MedicalBill, error) {
	var bill domain.MedicalBill
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *MedicalBillRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.MedicalBill, error) {
	var bills []domain.MedicalBill
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("service_date DESC NULLS LAST, created_at DESC").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *MedicalBillRepository) Update(ctx context.Context, bill *domain.MedicalBill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *MedicalBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.MedicalBill{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
