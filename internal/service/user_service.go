package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/veritas-legal/casefile-api/internal/ai"
	"github.com/veritas-legal/casefile-api/internal/auth"
	"github.com/veritas-legal/casefile-api/internal/domain"
	"github.com/veritas-legal/casefile-api/internal/mapper"
	"github.com/veritas-legal/casefile-api/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration, login and profile settings
type UserService struct {
	userRepo *repository.UserRepository
	issuer   *auth.TokenIssuer
	aiClient *ai.Client
	logger   *zap.Logger
}

func NewUserService(
	userRepo *repository.UserRepository,
	issuer *auth.TokenIssuer,
	aiClient *ai.Client,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		issuer:   issuer,
		aiClient: aiClient,
		logger:   logger,
	}
}

// Register creates a new account and returns a login response with a token
func (s *UserService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	token, err := s.issuer.Issue(user.ID, user.Email, user.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.LoginResponse{Token: token, User: mapper.ToUserDTO(user)}, nil
}

// Login authenticates an account and issues an access token
func (s *UserService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.DisplayName)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.LoginResponse{Token: token, User: mapper.ToUserDTO(user)}, nil
}

// GetProfile returns the user's profile
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	// Server-level configuration also counts as "configured"
	if !dto.AiConfigured {
		dto.AiConfigured = s.aiClient.Configured(user)
	}
	return &dto, nil
}

// UpdateAiSettings stores a user's AI provider configuration. Submitting an
// empty key clears the per-user configuration.
func (s *UserService) UpdateAiSettings(ctx context.Context, userID uuid.UUID, req *domain.AiSettingsRequest) (*domain.UserDTO, error) {
	if err := s.userRepo.UpdateAiSettings(ctx, userID, req.ApiKey, req.Endpoint, req.DeploymentName); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update ai settings: %w", err)
	}
	return s.GetProfile(ctx, userID)
}
