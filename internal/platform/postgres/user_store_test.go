package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumnNames = []string{
	"id", "username", "email", "hashed_password", "role", "active", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("alice", "alice@example.com", "$2a$10$hash", domain.RoleUser)
	require.NoError(t, err)
	return user
}

func TestPostgresUserStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		user := testUser(t)

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, "alice", "alice@example.com", "$2a$10$hash", "USER", true,
				sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(ctx, user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(pgError(uniqueViolationCode, usersEmailConstraint))

		err := s.Create(ctx, testUser(t))
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		user := testUser(t)
		user.Username = "x"
		assert.ErrorIs(t, s.Create(ctx, user), domain.ErrValidation)
	})
}

func TestPostgresUserStore_Get(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now().UTC()

	t.Run("by id", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(userColumnNames).
				AddRow(id.String(), "admin", "admin@example.com", "hash", "ADMIN", true, now, now))

		user, err := s.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, domain.RoleAdmin, user.Role)
		assert.True(t, user.Active)
	})

	t.Run("by email not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows(userColumnNames))

		_, err := s.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_ExistsAndCount(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectQuery("SELECT EXISTS (.+) WHERE username = \\$1").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS (.+) WHERE email = \\$1").
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	taken, err := s.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, taken)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
