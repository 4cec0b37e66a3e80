package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
)

// maxHistoryTurns caps how many prior messages are replayed to the model
const maxHistoryTurns = 40

// ChatService handles AI chat sessions scoped to a case
type ChatService struct {
	chatRepo   *repository.ChatRepository
	caseRepo   *repository.CaseRepository
	docRepo    *repository.DocumentRepository
	userRepo   *repository.UserRepository
	promptRepo *repository.PromptRepository
	aiClient   *ai.Client
	logger     *zap.Logger
}

func NewChatService(
	chatRepo *repository.ChatRepository,
	caseRepo *repository.CaseRepository,
	docRepo *repository.DocumentRepository,
	userRepo *repository.UserRepository,
	promptRepo *repository.PromptRepository,
	aiClient *ai.Client,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatRepo:   chatRepo,
		caseRepo:   caseRepo,
		docRepo:    docRepo,
		userRepo:   userRepo,
		promptRepo: promptRepo,
		aiClient:   aiClient,
		logger:     logger,
	}
}

// CreateSession starts a chat session on a case
func (s *ChatService) CreateSession(ctx context.Context, caseID, userID uuid.UUID, req *domain.CreateChatSessionRequest) (*domain.ChatSessionDTO, error) {
	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	title := req.Title
	if title == "" {
		title = "Chat about case " + c.CaseNumber
	}

	session := &domain.AiChatSession{
		CaseID: caseID,
		UserID: userID,
		Title:  title,
	}
	if err := s.chatRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}

	dto := mapper.ToChatSessionDTO(session, nil)
	return &dto, nil
}

// ListSessions returns a case's chat sessions, most recently used first
func (s *ChatService) ListSessions(ctx context.Context, caseID uuid.UUID) ([]domain.ChatSessionDTO, error) {
	if _, err := s.caseRepo.GetByID(ctx, caseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	sessions, err := s.chatRepo.ListSessionsByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}

	dtos := make([]domain.ChatSessionDTO, len(sessions))
	for i := range sessions {
		dtos[i] = mapper.ToChatSessionDTO(&sessions[i], nil)
	}
	return dtos, nil
}

// GetSession returns a session with its full message history
func (s *ChatService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.ChatSessionDTO, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	messages, err := s.chatRepo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	dto := mapper.ToChatSessionDTO(session, messages)
	return &dto, nil
}

// DeleteSession removes a session and its messages
func (s *ChatService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.chatRepo.DeleteSession(ctx, sessionID); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

// SendMessage appends a user turn, asks the model for a reply grounded in
// the case context, and persists both turns. The user turn is stored even
// when the completion fails so the conversation is not lost.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, userID uuid.UUID, req *domain.SendChatMessageRequest) (*domain.ChatMessageDTO, error) {
	session, err := s.chatRepo.GetSession(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !s.aiClient.Configured(user) {
		return nil, ErrAiNotConfigured
	}

	history, err := s.chatRepo.ListMessages(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	systemPrompt, err := s.buildSystemPrompt(ctx, session.CaseID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.AiChatMessage{
		SessionID: sessionID,
		Role:      domain.ChatRoleUser,
		Content:   req.Content,
	}
	if err := s.chatRepo.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	messages := []ai.Message{{Role: openai.ChatMessageRoleSystem, Content: systemPrompt}}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	for _, m := range history {
		messages = append(messages, ai.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, ai.Message{Role: openai.ChatMessageRoleUser, Content: req.Content})

	reply, _, err := s.aiClient.Complete(ctx, user, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	assistantMsg := &domain.AiChatMessage{
		SessionID: sessionID,
		Role:      domain.ChatRoleAssistant,
		Content:   reply,
	}
	if err := s.chatRepo.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	if err := s.chatRepo.TouchSession(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to touch chat session", zap.Error(err))
	}

	dto := mapper.ToChatMessageDTO(assistantMsg)
	return &dto, nil
}

// buildSystemPrompt combines the stored chat prompt with a summary of the
// case and its processed documents.
func (s *ChatService) buildSystemPrompt(ctx context.Context, caseID uuid.UUID) (string, error) {
	prompt, err := s.promptRepo.GetByName(ctx, domain.PromptChatSystem)
	if err != nil {
		return "", fmt.Errorf("failed to load chat prompt: %w", err)
	}

	c, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("failed to get case: %w", err)
	}

	var b strings.Builder
	b.WriteString(prompt.Template)
	b.WriteString("\n\nCase context:\n")
	fmt.Fprintf(&b, "Client: %s\nCase number: %s\nType: %s\nStatus: %s\n", c.ClientName, c.CaseNumber, c.CaseType, c.Status)
	if c.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", c.Description)
	}

	docs, err := s.docRepo.ListByCase(ctx, caseID)
	if err != nil {
		return "", fmt.Errorf("failed to list documents: %w", err)
	}
	for _, doc := range docs {
		if doc.Status == domain.ProcessingStatusProcessed && doc.AiSummary != "" {
			fmt.Fprintf(&b, "\nDocument %q summary:\n%s\n", doc.Filename, doc.AiSummary)
		}
	}

	return b.String(), nil
}
