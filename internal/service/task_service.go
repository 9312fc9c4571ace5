package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/domain/policy"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Listing defaults and limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSortBy   = store.SortByCreatedAt
)

// ListParams selects a page of the caller's visible tasks.
type ListParams struct {
	Page     int
	Size     int
	SortBy   string
	Status   *domain.TaskStatus
	Priority *domain.Priority
}

// TaskView is a task together with the users it references.
// Assignee is nil when the task has no assignee.
type TaskView struct {
	Task     *domain.Task
	Creator  *domain.User
	Assignee *domain.User
}

// TaskService manages the task lifecycle on behalf of an acting user.
// Every method gates access through the policy package.
type TaskService interface {
	// Create stores a new task owned by actor. A non-nil AssignedToID must
	// name an existing user; otherwise nothing is stored.
	Create(ctx context.Context, actor *domain.User, draft domain.TaskDraft) (*TaskView, error)

	// List returns one page of the tasks actor may see, newest first by default.
	List(ctx context.Context, actor *domain.User, params ListParams) ([]*TaskView, error)

	// ListMine returns every task actor created, newest first.
	ListMine(ctx context.Context, actor *domain.User) ([]*TaskView, error)

	// Get returns one task. store.ErrTaskNotFound takes precedence over
	// domain.ErrUnauthorized.
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*TaskView, error)

	// Update overwrites the editable fields of a task. A nil AssignedToID
	// clears the assignment. The creator never changes.
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, draft domain.TaskDraft) (*TaskView, error)

	// Delete permanently removes a task. Only admins may delete.
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

type taskServiceImpl struct {
	stores store.Stores
	tx     store.TxRunner
	logger *slog.Logger
}

// NewTaskService creates a TaskService. stores serves reads outside a
// transaction; tx runs the read-check-write sequences of Create and Update.
func NewTaskService(stores store.Stores, tx store.TxRunner, logger *slog.Logger) (TaskService, error) {
	if stores.Users == nil || stores.Tasks == nil {
		return nil, fmt.Errorf("task service requires user and task stores")
	}
	if tx == nil {
		return nil, fmt.Errorf("task service requires a transaction runner")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		stores: stores,
		tx:     tx,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskServiceImpl) Create(ctx context.Context, actor *domain.User, draft domain.TaskDraft) (*TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !policy.CanCreate(actor) {
		return nil, NewTaskServiceError("create", "no acting user", domain.ErrUnauthorized)
	}

	var view *TaskView
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		assignee, err := resolveAssignee(ctx, tx.Users, draft.AssignedToID)
		if err != nil {
			return err
		}

		task, err := domain.NewTask(actor.ID, draft)
		if err != nil {
			return err
		}
		if err := tx.Tasks.Create(ctx, task); err != nil {
			return err
		}

		view = &TaskView{Task: task, Creator: actor, Assignee: assignee}
		return nil
	})
	if err != nil {
		log.Debug("task create rejected",
			slog.String("user_id", actor.ID.String()),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create", "failed to create task", err)
	}

	log.Info("task created",
		slog.String("task_id", view.Task.ID.String()),
		slog.String("user_id", actor.ID.String()))
	return view, nil
}

func (s *taskServiceImpl) List(ctx context.Context, actor *domain.User, params ListParams) ([]*TaskView, error) {
	query, err := buildTaskQuery(params)
	if err != nil {
		return nil, NewTaskServiceError("list", "invalid listing parameters", err)
	}

	query.OwnerID = policy.VisibilityFilter(actor).OwnerID

	tasks, err := s.stores.Tasks.List(ctx, query)
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}
	return s.views(ctx, tasks)
}

func (s *taskServiceImpl) ListMine(ctx context.Context, actor *domain.User) ([]*TaskView, error) {
	if actor == nil {
		return nil, NewTaskServiceError("list_mine", "no acting user", domain.ErrUnauthorized)
	}
	tasks, err := s.stores.Tasks.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, NewTaskServiceError("list_mine", "failed to list tasks", err)
	}
	return s.views(ctx, tasks)
}

func (s *taskServiceImpl) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*TaskView, error) {
	task, err := s.stores.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}
	if err := policy.CanView(actor, task); err != nil {
		s.logDenied(ctx, "view", actor, task)
		return nil, NewTaskServiceError("get", "access denied", err)
	}

	views, err := s.views(ctx, []*domain.Task{task})
	if err != nil {
		return nil, NewTaskServiceError("get", "failed to load task users", err)
	}
	return views[0], nil
}

func (s *taskServiceImpl) Update(
	ctx context.Context,
	actor *domain.User,
	id uuid.UUID,
	draft domain.TaskDraft,
) (*TaskView, error) {
	var view *TaskView
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx store.Stores) error {
		task, err := tx.Tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := policy.CanUpdate(actor, task); err != nil {
			s.logDenied(ctx, "update", actor, task)
			return err
		}

		assignee, err := resolveAssignee(ctx, tx.Users, draft.AssignedToID)
		if err != nil {
			return err
		}
		if err := task.Apply(draft); err != nil {
			return err
		}
		if err := tx.Tasks.Update(ctx, task); err != nil {
			return err
		}

		creator := actor
		if task.CreatedBy != actor.ID {
			if creator, err = tx.Users.GetByID(ctx, task.CreatedBy); err != nil {
				return fmt.Errorf("load creator: %w", err)
			}
		}
		view = &TaskView{Task: task, Creator: creator, Assignee: assignee}
		return nil
	})
	if err != nil {
		return nil, NewTaskServiceError("update", "failed to update task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", id.String()),
		slog.String("user_id", actor.ID.String()))
	return view, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	task, err := s.stores.Tasks.GetByID(ctx, id)
	if err != nil {
		return NewTaskServiceError("delete", "failed to load task", err)
	}
	if err := policy.CanDelete(actor, task); err != nil {
		s.logDenied(ctx, "delete", actor, task)
		return NewTaskServiceError("delete", "access denied", err)
	}
	if err := s.stores.Tasks.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("user_id", actor.ID.String()))
	return nil
}

func (s *taskServiceImpl) logDenied(ctx context.Context, action string, actor *domain.User, task *domain.Task) {
	attrs := []any{slog.String("action", action), slog.String("task_id", task.ID.String())}
	if actor != nil {
		attrs = append(attrs, slog.String("user_id", actor.ID.String()))
	}
	logger.FromContextOrDefault(ctx, s.logger).Warn("task access denied", attrs...)
}

// views attaches creator and assignee records to tasks, loading each
// distinct user once.
func (s *taskServiceImpl) views(ctx context.Context, tasks []*domain.Task) ([]*TaskView, error) {
	cache := make(map[uuid.UUID]*domain.User)
	load := func(id uuid.UUID) (*domain.User, error) {
		if u, ok := cache[id]; ok {
			return u, nil
		}
		u, err := s.stores.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		cache[id] = u
		return u, nil
	}

	views := make([]*TaskView, 0, len(tasks))
	for _, task := range tasks {
		creator, err := load(task.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("load creator of task %s: %w", task.ID, err)
		}

		view := &TaskView{Task: task, Creator: creator}
		if task.AssignedTo != nil {
			assignee, err := load(*task.AssignedTo)
			switch {
			case err == nil:
				view.Assignee = assignee
			case errors.Is(err, store.ErrUserNotFound):
				logger.FromContextOrDefault(ctx, s.logger).Warn("task assignee no longer exists",
					slog.String("task_id", task.ID.String()))
			default:
				return nil, fmt.Errorf("load assignee of task %s: %w", task.ID, err)
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func resolveAssignee(ctx context.Context, users store.UserStore, id *uuid.UUID) (*domain.User, error) {
	if id == nil {
		return nil, nil
	}
	user, err := users.GetByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("assigned user %s: %w", *id, err)
	}
	return user, nil
}

// buildTaskQuery validates params and fills in defaults. It does not set
// the owner filter.
func buildTaskQuery(params ListParams) (store.TaskQuery, error) {
	if params.Page < 0 || params.Size < 0 {
		return store.TaskQuery{}, ErrInvalidPagination
	}

	size := params.Size
	switch {
	case size == 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if params.Page > math.MaxInt32/size {
		return store.TaskQuery{}, ErrInvalidPagination
	}

	sortBy := store.TaskSortField(params.SortBy)
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if !sortBy.IsValid() {
		return store.TaskQuery{}, fmt.Errorf("%w: %q", ErrInvalidSort, params.SortBy)
	}

	if params.Status != nil && !params.Status.IsValid() {
		return store.TaskQuery{}, domain.NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE", nil)
	}
	if params.Priority != nil && !params.Priority.IsValid() {
		return store.TaskQuery{}, domain.NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH", nil)
	}

	return store.TaskQuery{
		Status:     params.Status,
		Priority:   params.Priority,
		SortBy:     sortBy,
		Descending: true,
		Limit:      size,
		Offset:     params.Page * size,
	}, nil
}
