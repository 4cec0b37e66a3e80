package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newChatService(db *gorm.DB) *service.ChatService {
	return service.NewChatService(
		repository.NewChatRepository(db),
		repository.NewCaseRepository(db),
		repository.NewDocumentRepository(db),
		repository.NewUserRepository(db),
		repository.NewPromptRepository(db),
		newUnconfiguredAiClient(),
		zap.NewNop(),
	)
}

func TestChatService_CreateSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	dto, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{
		Title: "Liability questions",
	})

	require.NoError(t, err)
	assert.Equal(t, "Liability questions", dto.Title)
	assert.Equal(t, c.ID, dto.CaseID)
	assert.Equal(t, user.ID, dto.UserID)
	assert.Empty(t, dto.Messages)
}

func TestChatService_CreateSession_DefaultTitle(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	dto, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{})

	require.NoError(t, err)
	assert.Equal(t, "Chat about case CV-2024-0193", dto.Title)
}

func TestChatService_CreateSession_CaseNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.CreateSession(context.Background(), uuid.New(), user.ID, &domain.CreateChatSessionRequest{})

	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestChatService_GetSession_WithMessages(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	created, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{})
	require.NoError(t, err)

	chatRepo := repository.NewChatRepository(db)
	require.NoError(t, chatRepo.CreateMessage(context.Background(), &domain.AiChatMessage{
		SessionID: created.ID, Role: domain.ChatRoleUser, Content: "What are the specials?",
	}))
	require.NoError(t, chatRepo.CreateMessage(context.Background(), &domain.AiChatMessage{
		SessionID: created.ID, Role: domain.ChatRoleAssistant, Content: "The bills total $3,821.50.",
	}))

	dto, err := svc.GetSession(context.Background(), created.ID)

	require.NoError(t, err)
	require.Len(t, dto.Messages, 2)
	assert.Equal(t, "user", dto.Messages[0].Role)
	assert.Equal(t, "assistant", dto.Messages[1].Role)
}

func TestChatService_ListSessions(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	for i := 0; i < 3; i++ {
		_, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{})
		require.NoError(t, err)
	}

	sessions, err := svc.ListSessions(context.Background(), c.ID)

	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestChatService_DeleteSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	created, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), created.ID))

	_, err = svc.GetSession(context.Background(), created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteSession(context.Background(), uuid.New()), service.ErrNotFound)
}

func TestChatService_SendMessage_RequiresProvider(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")
	c := createTestCase(t, db, user.ID, "CV-2024-0193")

	created, err := svc.CreateSession(context.Background(), c.ID, user.ID, &domain.CreateChatSessionRequest{})
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), created.ID, user.ID, &domain.SendChatMessageRequest{
		Content: "What are the specials?",
	})

	assert.ErrorIs(t, err, service.ErrAiNotConfigured)
}

func TestChatService_SendMessage_SessionNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newChatService(db)
	user := createTestUser(t, db, "jane@example.com")

	_, err := svc.SendMessage(context.Background(), uuid.New(), user.ID, &domain.SendChatMessageRequest{
		Content: "Hello",
	})

	assert.ErrorIs(t, err, service.ErrNotFound)
}
