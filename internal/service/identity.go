package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// IdentityResolver turns an authenticated email into the acting user.
type IdentityResolver interface {
	// Resolve returns the user registered under email. It fails with an
	// error wrapping store.ErrUserNotFound when no such user exists and with
	// ErrAccountDisabled when the account is inactive.
	Resolve(ctx context.Context, email string) (*domain.User, error)
}

type identityResolver struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewIdentityResolver creates an IdentityResolver backed by users.
func NewIdentityResolver(users store.UserStore, logger *slog.Logger) IdentityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &identityResolver{
		users:  users,
		logger: logger.With(slog.String("component", "identity_resolver")),
	}
}

func (r *identityResolver) Resolve(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Warn("authenticated identity has no user record")
		} else {
			log.Error("failed to resolve identity", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	if !user.Active {
		log.Warn("authenticated identity is disabled", slog.String("user_id", user.ID.String()))
		return nil, ErrAccountDisabled
	}
	return user, nil
}
