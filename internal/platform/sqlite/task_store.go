package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var sortColumns = map[store.TaskSortField]string{
	store.SortByCreatedAt: "created_at",
	store.SortByUpdatedAt: "updated_at",
	store.SortByTitle:     "title",
	store.SortByStatus:    "status",
	store.SortByPriority:  "priority",
}

// TaskStore implements store.TaskStore with gorm.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTaskStore creates a TaskStore on db.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{db: db, logger: logger.With(slog.String("component", "task_store"))}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(newTaskRecord(task)).Error
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return mapError(err, store.ErrTaskNotFound)
	}
	return nil
}

// GetByID implements store.TaskStore.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var rec taskRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&rec).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}
	return rec.toDomain()
}

// Update implements store.TaskStore. created_by and created_at are never written.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	rec := newTaskRecord(task)
	result := s.db.WithContext(ctx).Model(&taskRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"title":       rec.Title,
			"description": rec.Description,
			"status":      rec.Status,
			"priority":    rec.Priority,
			"assigned_to": rec.AssignedTo,
			"updated_at":  rec.UpdatedAt,
		})
	if result.Error != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.String("error", result.Error.Error()),
			slog.String("task_id", rec.ID))
		return mapError(result.Error, store.ErrTaskNotFound)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&taskRecord{})
	if result.Error != nil {
		return mapError(result.Error, store.ErrTaskNotFound)
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// List implements store.TaskStore.
func (s *TaskStore) List(ctx context.Context, q store.TaskQuery) ([]*domain.Task, error) {
	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = store.SortByCreatedAt
	}
	column, ok := sortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported sort field %q", store.ErrInvalidEntity, sortBy)
	}

	tx := s.db.WithContext(ctx).Model(&taskRecord{})
	if q.OwnerID != nil {
		tx = tx.Where("created_by = ?", q.OwnerID.String())
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", string(*q.Status))
	}
	if q.Priority != nil {
		tx = tx.Where("priority = ?", string(*q.Priority))
	}

	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: q.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: true})
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	return s.find(tx)
}

// ListByCreator implements store.TaskStore.
func (s *TaskStore) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tx := s.db.WithContext(ctx).
		Where("created_by = ?", userID.String()).
		Order("created_at DESC, id DESC")
	return s.find(tx)
}

func (s *TaskStore) find(tx *gorm.DB) ([]*domain.Task, error) {
	var recs []taskRecord
	if err := tx.Find(&recs).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}

	tasks := make([]*domain.Task, 0, len(recs))
	for i := range recs {
		task, err := recs[i].toDomain()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}
