package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/stock-service/internal/auth"
	"github.com/spec-kit/stock-service/internal/config"
	"github.com/spec-kit/stock-service/internal/domain"
	"github.com/spec-kit/stock-service/internal/events"
	"github.com/spec-kit/stock-service/internal/repository"
	apperrors "github.com/spec-kit/stock-service/pkg/util"
)

// LoginResult bundles the issued token with the identity it describes.
type LoginResult struct {
	Account   *domain.Account
	Roles     []domain.Role
	Token     string
	ExpiresAt time.Time
}

// AuthService coordinates registration, login, logout and token refresh.
type AuthService struct {
	accounts   repository.AccountRepository
	roles      repository.RoleRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	RoleRepo    repository.RoleRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		roles:      deps.RoleRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth),
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates an account and provisions its role. Uniqueness checks run
// before creation, creation before any role side effect; a failed registration
// leaves the registry untouched for that account.
func (s *AuthService) Register(ctx context.Context, kind domain.Role, username, email, password string) (*domain.Account, error) {
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown registration kind", nil)
	}

	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewAccountExists()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewEmailExists()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewAccountCreationFailed(err)
	}

	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// The pre-checks race against concurrent registrations; the store's
		// constraints are the authority.
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, apperrors.NewAccountExists()
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperrors.NewEmailExists()
		default:
			return nil, apperrors.NewAccountCreationFailed(err)
		}
	}

	if err := s.provisionRoles(ctx, account, kind); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventAccountRegistered, username, events.AccountRegisteredPayload{
		AccountID: account.ID,
		Email:     account.Email,
		Role:      kind,
	})
	return account, nil
}

// provisionRoles makes the full catalog exist, then assigns exactly the target
// role. Assignment must not depend on whether the role row pre-existed.
func (s *AuthService) provisionRoles(ctx context.Context, account *domain.Account, kind domain.Role) error {
	for _, role := range domain.AllRoles() {
		if err := s.roles.Ensure(ctx, role); err != nil {
			return err
		}
	}
	return s.roles.Assign(ctx, account.ID, kind)
}

// Login verifies credentials and issues a role-bearing token. An unknown
// username and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.EventLoginFailed, username, events.LoginFailedPayload{})
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		s.publish(ctx, events.EventLoginFailed, username, events.LoginFailedPayload{})
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	roles, err := s.roles.RolesForAccount(ctx, account.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, string(role))
	}

	token, expiresAt, err := s.tokenMgr.Issue(account.Username, roleNames)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventLoginSucceeded, username, events.LoginSucceededPayload{
		AccountID: account.ID,
		Roles:     roles,
		ExpiresAt: expiresAt,
	})
	return &LoginResult{Account: account, Roles: roles, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout rotates the account's security stamp. Rotation is advisory: tokens
// already in circulation remain valid until their natural expiration, an
// inherent limit of stateless bearer tokens.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.accounts.RotateSecurityStamp(ctx, account.ID); err != nil {
		return err
	}
	s.publish(ctx, events.EventAccountLoggedOut, username, nil)
	return nil
}

// Refresh exchanges the Authorization header's bearer token for a fresh one
// carrying the same identity and role claims under a new jti and expiration.
// Every failure collapses to Unauthorized.
func (s *AuthService) Refresh(ctx context.Context, authHeader string) (string, time.Time, error) {
	tokenStr, err := auth.ExtractBearer(authHeader)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid token")
	}
	claims, err := s.tokenMgr.ParseForRefresh(tokenStr)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("invalid token")
	}

	token, expiresAt, err := s.tokenMgr.Issue(claims.Name, claims.Roles)
	if err != nil {
		return "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventTokenRefreshed, claims.Name, events.TokenRefreshedPayload{ExpiresAt: expiresAt})
	return token, expiresAt, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("publish auth event", zap.String("type", string(eventType)), zap.Error(err))
	}
}
