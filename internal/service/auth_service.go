package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/auth"
	"github.com/spec-kit/employee-directory/internal/config"
	"github.com/spec-kit/employee-directory/internal/domain"
	"github.com/spec-kit/employee-directory/internal/repository"
	"github.com/spec-kit/employee-directory/internal/validation"
	apperrors "github.com/spec-kit/employee-directory/pkg/util"
)

const invalidCredentialsMessage = "Invalid email or password"

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL),
		bcryptCost: cfg.BcryptCost,
		logger:     logger,
	}
}

// Register creates a staff account and signs a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	name, email, err := validation.Registration(name, email, password)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.createUser(ctx, name, email, password, domain.RoleStaff)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return s.issue(user)
}

// Login authenticates an account by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated(invalidCredentialsMessage)
	}
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated(invalidCredentialsMessage)
	}
	return s.issue(user)
}

// Me returns the account behind principal.
func (s *AuthService) Me(ctx context.Context, principal *domain.Principal) (*domain.User, error) {
	if err := auth.Check(principal, auth.AnyAuthenticated); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("User", map[string]any{"id": principal.UserID})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless an account with
// that email already exists. An existing account is returned unchanged.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	name, email, err := validation.Registration(name, email, password)
	if err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin account", zap.String("email", email))
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	user, err := s.createUser(ctx, name, email, password, domain.RoleAdmin)
	if apperrors.HasCode(err, apperrors.CodeConflict) {
		// Another instance bootstrapped first.
		return s.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", user.ID), zap.String("email", email))
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("User with this email already exists", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User) (*domain.User, string, time.Time, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}
