package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    string      `json:"expiresAt"`
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	Role         domain.Role `json:"role"`
}

// TaskRequest is the body of task create and update calls. Update replaces
// every editable field, so an omitted assignedToId clears the assignee.
type TaskRequest struct {
	Title        string     `json:"title"        validate:"required,min=1,max=200"`
	Description  string     `json:"description"  validate:"max=5000"`
	Status       string     `json:"status"       validate:"required,oneof=TODO IN_PROGRESS DONE"`
	Priority     string     `json:"priority"     validate:"required,oneof=LOW MEDIUM HIGH"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
}

// Draft converts the request into domain input.
func (r TaskRequest) Draft() domain.TaskDraft {
	return domain.TaskDraft{
		Title:        r.Title,
		Description:  r.Description,
		Status:       domain.TaskStatus(r.Status),
		Priority:     domain.Priority(r.Priority),
		AssignedToID: r.AssignedToID,
	}
}

// UserSummary is the public view of a user embedded in task responses.
type UserSummary struct {
	ID       uuid.UUID   `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	Priority    domain.Priority   `json:"priority"`
	AssignedTo  *UserSummary      `json:"assignedTo"`
	CreatedBy   *UserSummary      `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
