package handler

import (
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, logger: logger}
}

// CreateSession godoc
// @Summary Start a chat session
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body domain.CreateChatSessionRequest true "Session payload"
// @Success 201 {object} domain.ChatSessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/chat/sessions [post]
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.CreateChatSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.chatService.CreateSession(r.Context(), caseID, userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create chat session")
		return
	}

	respondJSON(w, http.StatusCreated, dto)
}

// ListSessions godoc
// @Summary List a case's chat sessions
// @Tags Chat
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {array} domain.ChatSessionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /cases/{id}/chat/sessions [get]
func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	caseID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dtos, err := h.chatService.ListSessions(r.Context(), caseID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list chat sessions")
		return
	}

	respondJSON(w, http.StatusOK, dtos)
}

// GetSession godoc
// @Summary Get a chat session with its messages
// @Tags Chat
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.ChatSessionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/sessions/{id} [get]
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	dto, err := h.chatService.GetSession(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get chat session")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Append a user message and receive the assistant reply
// @Tags Chat
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body domain.SendChatMessageRequest true "Message payload"
// @Success 200 {object} domain.ChatMessageDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/sessions/{id}/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.SendChatMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dto, err := h.chatService.SendMessage(r.Context(), id, userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to send chat message")
		return
	}

	respondJSON(w, http.StatusOK, dto)
}

// DeleteSession godoc
// @Summary Delete a chat session
// @Tags Chat
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /chat/sessions/{id} [delete]
func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete chat session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
