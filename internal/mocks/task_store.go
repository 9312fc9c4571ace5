package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. The default
// implementation keeps copies of tasks, so callers mutating a returned
// task do not change the stored one until Update.
type MockTaskStore struct {
	CreateFn        func(ctx context.Context, task *domain.Task) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	UpdateFn        func(ctx context.Context, task *domain.Task) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	ListFn          func(ctx context.Context, query store.TaskQuery) ([]*domain.Task, error)
	ListByCreatorFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// LastQuery records the most recent List argument.
	LastQuery store.TaskQuery

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

// NewMockTaskStore creates an empty mock store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

// AddTask seeds the store without going through Create.
func (m *MockTaskStore) AddTask(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tasks {
		m.tasks[t.ID] = cloneTask(t)
	}
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return store.ErrInvalidEntity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// Update implements the TaskStore interface. Like the SQL stores it never
// writes CreatedBy or CreatedAt.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	updated := cloneTask(task)
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt
	m.tasks[task.ID] = updated
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context, query store.TaskQuery) ([]*domain.Task, error) {
	m.LastQuery = query
	if m.ListFn != nil {
		return m.ListFn(ctx, query)
	}

	matched := m.filter(func(t *domain.Task) bool {
		if query.OwnerID != nil && t.CreatedBy != *query.OwnerID {
			return false
		}
		if query.Status != nil && t.Status != *query.Status {
			return false
		}
		if query.Priority != nil && t.Priority != *query.Priority {
			return false
		}
		return true
	})
	sortTasks(matched, query.SortBy, query.Descending)

	if query.Offset >= len(matched) {
		return []*domain.Task{}, nil
	}
	matched = matched[query.Offset:]
	if query.Limit > 0 && len(matched) > query.Limit {
		matched = matched[:query.Limit]
	}
	return matched, nil
}

// ListByCreator implements the TaskStore interface
func (m *MockTaskStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByCreatorFn != nil {
		return m.ListByCreatorFn(ctx, userID)
	}

	matched := m.filter(func(t *domain.Task) bool { return t.CreatedBy == userID })
	sortTasks(matched, store.SortByCreatedAt, true)
	return matched, nil
}

func (m *MockTaskStore) filter(keep func(*domain.Task) bool) []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

func sortTasks(tasks []*domain.Task, field store.TaskSortField, desc bool) {
	compare := func(a, b *domain.Task) int {
		switch field {
		case store.SortByUpdatedAt:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case store.SortByTitle:
			return strings.Compare(a.Title, b.Title)
		case store.SortByStatus:
			return strings.Compare(string(a.Status), string(b.Status))
		case store.SortByPriority:
			return strings.Compare(string(a.Priority), string(b.Priority))
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		c := compare(tasks[i], tasks[j])
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return tasks[i].ID.String() > tasks[j].ID.String()
	})
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AssignedTo != nil {
		id := *t.AssignedTo
		c.AssignedTo = &id
	}
	return &c
}
