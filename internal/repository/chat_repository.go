package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"gorm.io/gorm"
)

// ChatRepository handles database operations for chat sessions and messages
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) CreateSession(ctx context.Context, session *domain.AiChatSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *ChatRepository) GetSession(ctx context.Context, id uuid.UUID) (*domain.AiChatSession, error) {
	var session domain.AiChatSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ChatRepository) ListSessionsByCase(ctx context.Context, caseID uuid.UUID) ([]domain.AiChatSession, error) {
	var sessions []domain.AiChatSession
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *ChatRepository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.AiChatSession{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ChatRepository) CreateMessage(ctx context.Context, message *domain.AiChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessages returns a session's messages in conversation order
func (r *ChatRepository) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]domain.AiChatMessage, error) {
	var messages []domain.AiChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// TouchSession bumps a session's updated_at so recently used sessions
// sort first.
func (r *ChatRepository) TouchSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.AiChatSession{}).Where("id = ?", id).Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
