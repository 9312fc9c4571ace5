package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// AuthResult is a freshly issued token pair and the account it belongs to.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *domain.User
}

// AccountService registers users and issues their tokens.
type AccountService interface {
	// Register creates an active USER account. It returns ErrUsernameTaken
	// or ErrEmailTaken when either identifier is already in use.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Login verifies the credentials and issues a token pair. Every failure
	// returns ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
}

type accountServiceImpl struct {
	users         store.UserStore
	hasher        auth.PasswordHasher
	verifier      auth.PasswordVerifier
	jwt           auth.JWTService
	tokenLifetime time.Duration
	now           func() time.Time
	logger        *slog.Logger

	// dummyHash is compared against on unknown-email logins so they cost
	// as much as a wrong password.
	dummyOnce sync.Once
	dummyHash string
}

// NewAccountService creates an AccountService. tokenLifetime is the access
// token lifetime reported in AuthResult.ExpiresAt.
func NewAccountService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	jwtService auth.JWTService,
	tokenLifetime time.Duration,
	logger *slog.Logger,
) (AccountService, error) {
	if users == nil || hasher == nil || verifier == nil || jwtService == nil {
		return nil, fmt.Errorf("account service requires users, hasher, verifier and token service")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &accountServiceImpl{
		users:         users,
		hasher:        hasher,
		verifier:      verifier,
		jwt:           jwtService,
		tokenLifetime: tokenLifetime,
		now:           time.Now,
		logger:        logger.With(slog.String("component", "account_service")),
	}, nil
}

func (s *accountServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(password) > auth.MaxPasswordBytes {
		return nil, NewAccountServiceError("register", "password too long",
			domain.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes), nil))
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, NewAccountServiceError("register", "failed to check username", err)
	}
	if taken {
		return nil, NewAccountServiceError("register", "username unavailable", ErrUsernameTaken)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, NewAccountServiceError("register", "failed to check email", err)
	}
	if taken {
		return nil, NewAccountServiceError("register", "email unavailable", ErrEmailTaken)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewAccountServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(username, email, hashed, domain.RoleUser)
	if err != nil {
		return nil, NewAccountServiceError("register", "invalid account", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win between the checks and the insert.
		switch {
		case errors.Is(err, store.ErrUsernameExists):
			err = ErrUsernameTaken
		case errors.Is(err, store.ErrEmailExists):
			err = ErrEmailTaken
		}
		return nil, NewAccountServiceError("register", "failed to create user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// unknownUserHash returns a hash of a random password made with the
// configured hasher, so its cost matches real accounts.
func (s *accountServiceImpl) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hashed, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			s.logger.Warn("failed to prepare dummy password hash", slog.String("error", err.Error()))
			return
		}
		s.dummyHash = hashed
	})
	return s.dummyHash
}

func (s *accountServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			_ = s.verifier.Compare(s.unknownUserHash(), password)
			return nil, NewAccountServiceError("login", "authentication failed", ErrInvalidCredentials)
		}
		return nil, NewAccountServiceError("login", "failed to load user", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, NewAccountServiceError("login", "authentication failed", ErrInvalidCredentials)
	}
	if !user.Active {
		log.Debug("login for disabled account", slog.String("user_id", user.ID.String()))
		return nil, NewAccountServiceError("login", "authentication failed", ErrInvalidCredentials)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, NewAccountServiceError("login", "failed to issue tokens", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return result, nil
}

func (s *accountServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, NewAccountServiceError("refresh", "invalid refresh token", err)
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, NewAccountServiceError("refresh", "token subject no longer exists", auth.ErrInvalidRefreshToken)
		}
		return nil, NewAccountServiceError("refresh", "failed to load user", err)
	}
	if !user.Active {
		return nil, NewAccountServiceError("refresh", "account disabled", ErrAccountDisabled)
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, NewAccountServiceError("refresh", "failed to issue tokens", err)
	}
	return result, nil
}

func (s *accountServiceImpl) issue(ctx context.Context, user *domain.User) (*AuthResult, error) {
	access, err := s.jwt.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    s.now().UTC().Add(s.tokenLifetime),
		User:         user,
	}, nil
}
