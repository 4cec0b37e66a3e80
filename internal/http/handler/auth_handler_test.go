package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/config"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/http/handler"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"github.com/veritas-legal/casefile-api/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthHandlerRouter(db *gorm.DB) (chi.Router, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret:     "test-secret-key-for-handler-tests",
		TokenTTLHours: 1,
	})
	userService := service.NewUserService(
		repository.NewUserRepository(db),
		issuer,
		ai.NewClient(&config.AIConfig{}, zap.NewNop()),
		zap.NewNop(),
	)
	h := handler.NewAuthHandler(userService, zap.NewNop())
	mw := auth.NewMiddleware(issuer, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate)
		r.Get("/auth/me", h.Me)
		r.Put("/auth/ai-settings", h.UpdateAiSettings)
	})
	return r, issuer
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	router, _ := newAuthHandlerRouter(db)

	body, _ := json.Marshal(domain.RegisterRequest{
		Email:       "jane@example.com",
		Password:    "correct-horse",
		DisplayName: "Jane Doe",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var registered domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)

	body, _ = json.Marshal(domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)

	var loggedIn domain.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loggedIn))
	assert.Equal(t, "jane@example.com", loggedIn.User.Email)
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	db := setupTestDB(t)
	router, _ := newAuthHandlerRouter(db)

	// Password below the 8 character minimum
	body, _ := json.Marshal(domain.RegisterRequest{
		Email:       "jane@example.com",
		Password:    "short",
		DisplayName: "Jane Doe",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Contains(t, apiErr.Errors, "password")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	db := setupTestDB(t)
	router, _ := newAuthHandlerRouter(db)
	createTestUser(t, db, "jane@example.com")

	body, _ := json.Marshal(domain.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	db := setupTestDB(t)
	router, issuer := newAuthHandlerRouter(db)
	user := createTestUser(t, db, "jane@example.com")

	token, err := issuer.Issue(user.ID, user.Email, user.DisplayName)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto domain.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, user.ID, dto.ID)
	assert.False(t, dto.AiConfigured)
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	db := setupTestDB(t)
	router, _ := newAuthHandlerRouter(db)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateAiSettings(t *testing.T) {
	db := setupTestDB(t)
	router, issuer := newAuthHandlerRouter(db)
	user := createTestUser(t, db, "jane@example.com")

	token, err := issuer.Issue(user.ID, user.Email, user.DisplayName)
	require.NoError(t, err)

	body, _ := json.Marshal(domain.AiSettingsRequest{
		ApiKey:         "sk-user-key",
		Endpoint:       "https://myorg.openai.azure.com",
		DeploymentName: "gpt-4o",
	})
	req := httptest.NewRequest(http.MethodPut, "/auth/ai-settings", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto domain.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.True(t, dto.AiConfigured)
}
