package sqlite

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// userRecord is the gorm row for domain.User.
type userRecord struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Username       string    `gorm:"size:50;not null;uniqueIndex"`
	Email          string    `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"size:10;not null;default:USER"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (userRecord) TableName() string { return "users" }

// taskRecord is the gorm row for domain.Task. The associations exist only
// so AutoMigrate emits the foreign keys; they are never loaded.
type taskRecord struct {
	ID          string      `gorm:"primaryKey;size:36"`
	Title       string      `gorm:"size:200;not null"`
	Description string      `gorm:"size:5000;not null;default:''"`
	Status      string      `gorm:"size:20;not null"`
	Priority    string      `gorm:"size:10;not null"`
	CreatedBy   string      `gorm:"size:36;not null;index"`
	AssignedTo  *string     `gorm:"size:36"`
	Creator     *userRecord `gorm:"foreignKey:CreatedBy;references:ID"`
	Assignee    *userRecord `gorm:"foreignKey:AssignedTo;references:ID;constraint:OnDelete:SET NULL"`
	CreatedAt   time.Time   `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime:false"`
}

func (taskRecord) TableName() string { return "tasks" }

func newUserRecord(u *domain.User) *userRecord {
	return &userRecord{
		ID:             u.ID.String(),
		Username:       u.Username,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
		Active:         u.Active,
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
}

func (r *userRecord) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:             id,
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		Role:           domain.Role(r.Role),
		Active:         r.Active,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}, nil
}

func newTaskRecord(t *domain.Task) *taskRecord {
	rec := &taskRecord{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedBy:   t.CreatedBy.String(),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.AssignedTo != nil {
		s := t.AssignedTo.String()
		rec.AssignedTo = &s
	}
	return rec
}

func (r *taskRecord) toDomain() (*domain.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	createdBy, err := uuid.Parse(r.CreatedBy)
	if err != nil {
		return nil, err
	}
	task := &domain.Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.Priority(r.Priority),
		CreatedBy:   createdBy,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.AssignedTo != nil {
		assignee, err := uuid.Parse(*r.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = &assignee
	}
	return task, nil
}
