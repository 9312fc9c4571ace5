package seed_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/mocks"
	"github.com/phrazzld/tasktrack-api/internal/seed"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_EmptyStore(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tasks := mocks.NewMockTaskStore()
	tx := mocks.NewMockTxRunner(users, tasks)

	seeded, err := seed.New(users, tx, &mocks.MockPasswordHasher{}, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
	assert.Equal(t, 1, tx.Calls)

	ctx := context.Background()
	count, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	admin, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "hashed:Admin@123", admin.HashedPassword)

	user1, err := users.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	user2, err := users.GetByEmail(ctx, "user2@example.com")
	require.NoError(t, err)

	all, err := tasks.List(ctx, store.TaskQuery{SortBy: store.SortByCreatedAt, Descending: true})
	require.NoError(t, err)
	require.Len(t, all, 5)

	// Newest first.
	assert.Equal(t, "Implement Unit Tests", all[0].Title)
	assert.Equal(t, user2.ID, all[0].CreatedBy)
	assert.Nil(t, all[0].AssignedTo)

	assert.Equal(t, "Setup Project Environment", all[4].Title)
	assert.Equal(t, admin.ID, all[4].CreatedBy)
	require.NotNil(t, all[4].AssignedTo)
	assert.Equal(t, user1.ID, *all[4].AssignedTo)

	mine, err := tasks.ListByCreator(ctx, user1.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestSeeder_SkipsPopulatedStore(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	existing, err := domain.NewUser("someone", "someone@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	users.AddUser(existing)
	tx := mocks.NewMockTxRunner(users, mocks.NewMockTaskStore())

	seeded, err := seed.New(users, tx, &mocks.MockPasswordHasher{}, nil).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, seeded)
	assert.Zero(t, tx.Calls)
}

func TestSeeder_HashFailure(t *testing.T) {
	t.Parallel()

	users := mocks.NewMockUserStore()
	tx := mocks.NewMockTxRunner(users, mocks.NewMockTaskStore())
	boom := errors.New("hash failed")

	_, err := seed.New(users, tx, &mocks.MockPasswordHasher{Err: boom}, nil).Run(context.Background())

	assert.ErrorIs(t, err, boom)
}

func TestSeeder_DoesNotLogPasswords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	users := mocks.NewMockUserStore()
	tx := mocks.NewMockTxRunner(users, mocks.NewMockTaskStore())

	seeded, err := seed.New(users, tx, &mocks.MockPasswordHasher{}, log).Run(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)

	out := buf.String()
	assert.Contains(t, out, "admin@example.com")
	assert.NotContains(t, out, "Admin@123")
	assert.NotContains(t, out, "User@123")
	assert.NotContains(t, out, "password")
}
