//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openIntegrationDB connects to DATABASE_URL, applies migrations and
// truncates the tables. Tests are skipped when DATABASE_URL is unset.
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, "up", nil))
	_, err = db.ExecContext(ctx, "TRUNCATE tasks, users CASCADE")
	require.NoError(t, err)
	return db
}

func TestIntegration_TaskLifecycle(t *testing.T) {
	db := openIntegrationDB(t)
	ctx := context.Background()
	runner := NewTxRunner(db, nil)
	stores := runner.Stores()

	owner := testUser(t)
	require.NoError(t, stores.Users.Create(ctx, owner))

	dup, err := domain.NewUser("alice", "other@example.com", "hash", domain.RoleUser)
	require.NoError(t, err)
	assert.ErrorIs(t, stores.Users.Create(ctx, dup), store.ErrUsernameExists)

	task := testTask(t, owner.ID, &owner.ID)
	require.NoError(t, stores.Tasks.Create(ctx, task))

	got, err := stores.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.CreatedBy)
	require.NotNil(t, got.AssignedTo)

	ghost := uuid.New()
	bad := testTask(t, owner.ID, &ghost)
	assert.ErrorIs(t, stores.Tasks.Create(ctx, bad), store.ErrInvalidEntity)

	mine, err := stores.Tasks.ListByCreator(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, stores.Tasks.Delete(ctx, task.ID))
	_, err = stores.Tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestIntegration_RollbackPersistsNothing(t *testing.T) {
	db := openIntegrationDB(t)
	ctx := context.Background()
	runner := NewTxRunner(db, nil)

	owner := testUser(t)
	err := runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
		if err := s.Users.Create(ctx, owner); err != nil {
			return err
		}
		ghost := uuid.New()
		return s.Tasks.Create(ctx, testTask(t, owner.ID, &ghost))
	})
	require.Error(t, err)

	n, err := runner.Stores().Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
