package api

import (
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

func userSummary(u *domain.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

func taskToResponse(v *service.TaskView) TaskResponse {
	t := v.Task
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		AssignedTo:  userSummary(v.Assignee),
		CreatedBy:   userSummary(v.Creator),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// tasksToResponse never returns nil, so an empty listing encodes as [].
func tasksToResponse(views []*service.TaskView) []TaskResponse {
	out := make([]TaskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, taskToResponse(v))
	}
	return out
}

func authToResponse(r *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:        r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt.UTC().Format(time.RFC3339),
		ID:           r.User.ID,
		Username:     r.User.Username,
		Email:        r.User.Email,
		Role:         r.User.Role,
	}
}
