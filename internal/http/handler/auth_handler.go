package handler

import (
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	logger      *zap.Logger
}

func NewAuthHandler(userService *service.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, logger: logger}
}

// Register godoc
// @Summary Register a new account
// @Description Create an account and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Registration payload"
// @Success 201 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to register")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Authenticate and receive an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Login payload"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me godoc
// @Summary Get the current user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userCtx.UserID)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpdateAiSettings godoc
// @Summary Update AI provider settings
// @Description Store a personal AI provider key, endpoint and deployment. An empty key clears the settings.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.AiSettingsRequest true "AI settings payload"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/ai-settings [put]
func (h *AuthHandler) UpdateAiSettings(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req domain.AiSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := h.userService.UpdateAiSettings(r.Context(), userCtx.UserID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update AI settings")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
