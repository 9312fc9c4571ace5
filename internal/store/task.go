package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskSortField names a column tasks can be ordered by.
type TaskSortField string

const (
	SortByCreatedAt TaskSortField = "createdAt"
	SortByUpdatedAt TaskSortField = "updatedAt"
	SortByTitle     TaskSortField = "title"
	SortByStatus    TaskSortField = "status"
	SortByPriority  TaskSortField = "priority"
)

// IsValid reports whether f is a supported sort field.
func (f TaskSortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle, SortByStatus, SortByPriority:
		return true
	}
	return false
}

// TaskQuery selects a page of tasks. Nil filters match everything.
// Ties in the sort field are broken by id, descending.
type TaskQuery struct {
	OwnerID    *uuid.UUID
	Status     *domain.TaskStatus
	Priority   *domain.Priority
	SortBy     TaskSortField
	Descending bool
	Limit      int
	Offset     int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if a referenced user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update overwrites the stored task. CreatedBy and CreatedAt are never written.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete permanently removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns the tasks matching query. It returns an empty slice,
	// not an error, when nothing matches.
	List(ctx context.Context, query TaskQuery) ([]*domain.Task, error)

	// ListByCreator returns every task created by userID, newest first.
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}
