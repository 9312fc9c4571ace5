package domain

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length limits for tasks.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
)

// TaskStatus is the caller-set progress state of a task.
// Any status may transition to any other.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Priority ranks a task's urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work owned by the user who created it.
// CreatedBy is set once at creation and never changes.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskDraft carries the caller-editable fields of a task.
type TaskDraft struct {
	Title        string
	Description  string
	Status       TaskStatus
	Priority     Priority
	AssignedToID *uuid.UUID
}

// NewTask creates a task owned by createdBy from the draft's fields.
// The assignee is copied as-is; resolving it is the caller's job.
func NewTask(createdBy uuid.UUID, draft TaskDraft) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		CreatedBy:   createdBy,
		AssignedTo:  copyID(draft.AssignedToID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Apply overwrites the editable fields from draft and bumps UpdatedAt.
// A nil AssignedToID clears the assignment. CreatedBy is left untouched.
// On validation failure the task is restored to its previous state.
func (t *Task) Apply(draft TaskDraft) error {
	previous := *t

	t.Title = draft.Title
	t.Description = draft.Description
	t.Status = draft.Status
	t.Priority = draft.Priority
	t.AssignedTo = copyID(draft.AssignedToID)

	if err := t.Validate(); err != nil {
		*t = previous
		return err
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if t.CreatedBy == uuid.Nil {
		return NewValidationError("created_by", "cannot be empty", ErrInvalidID)
	}
	if t.Title == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return NewValidationError("title", "must be at most 200 characters", nil)
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return NewValidationError("description", "must be at most 5000 characters", nil)
	}
	if !t.Status.IsValid() {
		return NewValidationError("status", "must be one of TODO, IN_PROGRESS, DONE", nil)
	}
	if !t.Priority.IsValid() {
		return NewValidationError("priority", "must be one of LOW, MEDIUM, HIGH", nil)
	}
	if t.AssignedTo != nil && *t.AssignedTo == uuid.Nil {
		return NewValidationError("assigned_to", "cannot be the nil ID", ErrInvalidID)
	}
	return nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
