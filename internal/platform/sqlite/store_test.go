package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, s store.UserStore, name string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(name, name+"@example.com", "hash", role)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), user))
	return user
}

func createTask(t *testing.T, s store.TaskStore, owner uuid.UUID, title string, draft domain.TaskDraft) *domain.Task {
	t.Helper()
	draft.Title = title
	if draft.Status == "" {
		draft.Status = domain.TaskStatusTodo
	}
	if draft.Priority == "" {
		draft.Priority = domain.PriorityMedium
	}
	task, err := domain.NewTask(owner, draft)
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestOpen_FileDSNCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "tasks.db")
	db, err := Open(dsn, nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.FileExists(t, dsn)
}

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	users := NewUserStore(openTestDB(t), nil)

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	alice := createUser(t, users, "alice", domain.RoleUser)

	t.Run("get by id and email", func(t *testing.T) {
		got, err := users.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Username, got.Username)
		assert.Equal(t, alice.HashedPassword, got.HashedPassword)
		assert.True(t, got.Active)
		assert.WithinDuration(t, alice.CreatedAt, got.CreatedAt, time.Millisecond)

		got, err = users.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		_, err = users.GetByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := users.ExistsByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = users.ExistsByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicates", func(t *testing.T) {
		sameName, err := domain.NewUser("alice", "other@example.com", "hash", domain.RoleUser)
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, sameName), store.ErrUsernameExists)

		sameEmail, err := domain.NewUser("alice2", "alice@example.com", "hash", domain.RoleUser)
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, sameEmail), store.ErrEmailExists)
	})

	n, err = users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTaskStore_CRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	owner := createUser(t, users, "owner", domain.RoleUser)
	helper := createUser(t, users, "helper", domain.RoleUser)

	task := createTask(t, tasks, owner.ID, "Plan sprint", domain.TaskDraft{AssignedToID: &helper.ID})

	got, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.CreatedBy)
	require.NotNil(t, got.AssignedTo)
	assert.Equal(t, helper.ID, *got.AssignedTo)

	require.NoError(t, got.Apply(domain.TaskDraft{
		Title:    "Plan next sprint",
		Status:   domain.TaskStatusInProgress,
		Priority: domain.PriorityHigh,
	}))
	got.CreatedBy = helper.ID // must not be persisted
	require.NoError(t, tasks.Update(ctx, got))

	reloaded, err := tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan next sprint", reloaded.Title)
	assert.Equal(t, domain.TaskStatusInProgress, reloaded.Status)
	assert.Nil(t, reloaded.AssignedTo)
	assert.Equal(t, owner.ID, reloaded.CreatedBy)

	require.NoError(t, tasks.Delete(ctx, task.ID))
	_, err = tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, task.ID), store.ErrTaskNotFound)
	assert.ErrorIs(t, tasks.Update(ctx, got), store.ErrTaskNotFound)
}

func TestTaskStore_ForeignKeys(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	owner := createUser(t, NewUserStore(db, nil), "owner", domain.RoleUser)
	tasks := NewTaskStore(db, nil)

	ghost := uuid.New()
	task, err := domain.NewTask(owner.ID, domain.TaskDraft{
		Title: "x", Status: domain.TaskStatusTodo, Priority: domain.PriorityLow, AssignedToID: &ghost,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, tasks.Create(ctx, task), store.ErrInvalidEntity)

	orphan, err := domain.NewTask(uuid.New(), domain.TaskDraft{
		Title: "y", Status: domain.TaskStatusTodo, Priority: domain.PriorityLow,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, tasks.Create(ctx, orphan), store.ErrInvalidEntity)
}

func TestTaskStore_List(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserStore(db, nil)
	tasks := NewTaskStore(db, nil)

	alice := createUser(t, users, "alice", domain.RoleUser)
	bob := createUser(t, users, "bob", domain.RoleUser)

	var aliceTasks []*domain.Task
	for i := 0; i < 5; i++ {
		status := domain.TaskStatusTodo
		if i%2 == 0 {
			status = domain.TaskStatusDone
		}
		aliceTasks = append(aliceTasks, createTask(t, tasks, alice.ID, fmt.Sprintf("alice-%d", i),
			domain.TaskDraft{Status: status}))
		time.Sleep(2 * time.Millisecond)
	}
	createTask(t, tasks, bob.ID, "bob-0", domain.TaskDraft{Priority: domain.PriorityHigh})

	t.Run("unrestricted", func(t *testing.T) {
		all, err := tasks.List(ctx, store.TaskQuery{})
		require.NoError(t, err)
		assert.Len(t, all, 6)
	})

	t.Run("owner filter newest first", func(t *testing.T) {
		got, err := tasks.List(ctx, store.TaskQuery{OwnerID: &alice.ID, Descending: true})
		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, aliceTasks[4].ID, got[0].ID)
		assert.Equal(t, aliceTasks[0].ID, got[4].ID)
	})

	t.Run("paging", func(t *testing.T) {
		page, err := tasks.List(ctx, store.TaskQuery{
			OwnerID: &alice.ID, SortBy: store.SortByTitle, Limit: 2, Offset: 2,
		})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "alice-2", page[0].Title)
		assert.Equal(t, "alice-3", page[1].Title)

		past, err := tasks.List(ctx, store.TaskQuery{OwnerID: &alice.ID, Limit: 10, Offset: 50})
		require.NoError(t, err)
		assert.NotNil(t, past)
		assert.Empty(t, past)
	})

	t.Run("status and priority", func(t *testing.T) {
		done := domain.TaskStatusDone
		got, err := tasks.List(ctx, store.TaskQuery{Status: &done})
		require.NoError(t, err)
		assert.Len(t, got, 3)

		high := domain.PriorityHigh
		got, err = tasks.List(ctx, store.TaskQuery{Priority: &high})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, bob.ID, got[0].CreatedBy)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		_, err := tasks.List(ctx, store.TaskQuery{SortBy: "password"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("by creator", func(t *testing.T) {
		got, err := tasks.ListByCreator(ctx, bob.ID)
		require.NoError(t, err)
		assert.Len(t, got, 1)

		none, err := tasks.ListByCreator(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestTxRunner(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	runner := NewTxRunner(db, nil)

	var created *domain.User
	err := runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
		created = createUser(t, s.Users, "carol", domain.RoleUser)
		return errors.New("abort")
	})
	require.EqualError(t, err, "abort")

	_, err = runner.Stores().Users.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound, "rolled back")

	err = runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
		user := createUser(t, s.Users, "dave", domain.RoleUser)
		createTask(t, s.Tasks, user.ID, "committed", domain.TaskDraft{})
		return nil
	})
	require.NoError(t, err)

	n, err := runner.Stores().Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
