package sqlite

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"gorm.io/gorm"
)

// UserStore implements store.UserStore with gorm.
type UserStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserStore creates a UserStore on db.
func NewUserStore(db *gorm.DB, logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{db: db, logger: logger.With(slog.String("component", "user_store"))}
}

var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(newUserRecord(user)).Error; err != nil {
		mapped := mapError(err, store.ErrUserNotFound)
		if !store.IsDuplicateError(mapped) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}
	return nil
}

// GetByID implements store.UserStore.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.first(ctx, "id = ?", id.String())
}

// GetByEmail implements store.UserStore.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

// ExistsByUsername implements store.UserStore.
func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username = ?", username)
}

// ExistsByEmail implements store.UserStore.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email = ?", email)
}

// Count implements store.UserStore.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&userRecord{}).Count(&n).Error; err != nil {
		return 0, mapError(err, store.ErrUserNotFound)
	}
	return n, nil
}

func (s *UserStore) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&rec).Error; err != nil {
		return nil, mapError(err, store.ErrUserNotFound)
	}
	return rec.toDomain()
}

func (s *UserStore) exists(ctx context.Context, cond string, arg any) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&userRecord{}).Where(cond, arg).Count(&n).Error; err != nil {
		return false, mapError(err, store.ErrUserNotFound)
	}
	return n > 0, nil
}
