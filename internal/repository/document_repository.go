package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// DocumentRepository handles database operations for documents
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByCase(ctx context.Context, caseID uuid.UUID) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc *domain.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// UpdateStatus transitions a document's processing status
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProcessingStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Document{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetAnalysis stores analysis output and marks the document processed
func (r *DocumentRepository) SetAnalysis(ctx context.Context, id uuid.UUID, summary, extracted, container, blobName string) error {
	return r.db.WithContext(ctx).Model(&domain.Document{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         domain.ProcessingStatusProcessed,
		"ai_summary":     summary,
		"extracted_data": extracted,
		"container":      container,
		"blob_name":      blobName,
	}).Error
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
