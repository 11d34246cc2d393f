package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quizquest/quiz-service/internal/auth"
	"github.com/quizquest/quiz-service/internal/cache"
	"github.com/quizquest/quiz-service/internal/models"
	"github.com/quizquest/quiz-service/internal/repositories"
	"github.com/quizquest/quiz-service/internal/validator"
)

type authService struct {
	repo      repositories.Repository
	sessions  *cache.SessionStore
	tokens    *auth.TokenManager
	audit     AuditService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAuthService(
	repo repositories.Repository,
	sessions *cache.SessionStore,
	tokens *auth.TokenManager,
	audit AuditService,
	logger *slog.Logger,
	validator *validator.Validator,
) AuthService {
	return &authService{
		repo:      repo,
		sessions:  sessions,
		tokens:    tokens,
		audit:     audit,
		logger:    logger,
		validator: validator,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest, meta RequestMeta) (*models.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	taken, err := s.repo.User().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", ErrUsernameTaken
	}

	taken, err = s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStandard
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	s.audit.Record(ctx, AuditEntry{
		UserID:    &user.ID,
		Action:    models.AuditCreate,
		ModelName: "User",
		ObjectID:  &user.ID,
		Details:   fmt.Sprintf("new user %s registered", user.Username),
		Meta:      meta,
	})

	// New accounts are logged in immediately.
	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest, meta RequestMeta) (*models.User, string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, "", err
	}

	user, err := s.repo.User().GetByUsername(ctx, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user logged in", "user_id", user.ID, "username", user.Username)

	s.audit.Record(ctx, AuditEntry{
		UserID:    &user.ID,
		Action:    models.AuditLogin,
		ModelName: "User",
		ObjectID:  &user.ID,
		Details:   fmt.Sprintf("user %s logged in", user.Username),
		Meta:      meta,
	})

	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string, userID uint, meta RequestMeta) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("user logged out", "user_id", userID)

	s.audit.Record(ctx, AuditEntry{
		UserID:    &userID,
		Action:    models.AuditLogout,
		ModelName: "User",
		ObjectID:  &userID,
		Details:   "user logged out",
		Meta:      meta,
	})

	return nil
}

func (s *authService) startSession(ctx context.Context, user *models.User) (string, error) {
	sessionID := uuid.NewString()
	if err := s.sessions.Create(ctx, sessionID, user.ID); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role, sessionID)
	if err != nil {
		return "", err
	}
	return token, nil
}
