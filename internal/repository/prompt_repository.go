package repository

import (
	"context"

	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// PromptRepository handles database operations for AI prompt templates
type PromptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// GetByName returns the prompt template with the given well-known name
func (r *PromptRepository) GetByName(ctx context.Context, name string) (*domain.AiPrompt, error) {
	var prompt domain.AiPrompt
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Upsert creates or updates a named prompt template
func (r *PromptRepository) Upsert(ctx context.Context, prompt *domain.AiPrompt) error {
	var existing domain.AiPrompt
	err := r.db.WithContext(ctx).Where("name = ?", prompt.Name).First(&existing).Error
	if err == nil {
		existing.Template = prompt.Template
		return r.db.WithContext(ctx).Save(&existing).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.WithContext(ctx).Create(prompt).Error
}
