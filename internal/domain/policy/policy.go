// Package policy decides which tasks a user may create, read, change or
// remove. Every function is pure: decisions depend only on the user's id and
// role and on the task's creator.
package policy

import (
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// Visibility restricts a task listing. A nil OwnerID means no restriction.
type Visibility struct {
	OwnerID *uuid.UUID
}

// Unrestricted reports whether the visibility admits every task.
func (v Visibility) Unrestricted() bool {
	return v.OwnerID == nil
}

// Allows reports whether task falls inside the visible set.
func (v Visibility) Allows(task *domain.Task) bool {
	if task == nil {
		return false
	}
	return v.OwnerID == nil || *v.OwnerID == task.CreatedBy
}

// CanCreate reports whether user may create tasks. Any authenticated user may.
func CanCreate(user *domain.User) bool {
	return user != nil
}

// CanView returns domain.ErrUnauthorized unless user is an admin or created task.
func CanView(user *domain.User, task *domain.Task) error {
	if isAdminOrOwner(user, task) {
		return nil
	}
	return domain.ErrUnauthorized
}

// CanUpdate applies the same rule as CanView.
func CanUpdate(user *domain.User, task *domain.Task) error {
	if isAdminOrOwner(user, task) {
		return nil
	}
	return domain.ErrUnauthorized
}

// CanDelete returns domain.ErrUnauthorized unless user is an admin.
// Owning the task is not enough.
func CanDelete(user *domain.User, task *domain.Task) error {
	if user != nil && task != nil && user.IsAdmin() {
		return nil
	}
	return domain.ErrUnauthorized
}

// VisibilityFilter returns the listing restriction for user. Admins see every
// task; everyone else sees only the tasks they created.
func VisibilityFilter(user *domain.User) Visibility {
	if user.IsAdmin() {
		return Visibility{}
	}
	if user == nil {
		// Match nothing.
		nobody := uuid.Nil
		return Visibility{OwnerID: &nobody}
	}
	id := user.ID
	return Visibility{OwnerID: &id}
}

func isAdminOrOwner(user *domain.User, task *domain.Task) bool {
	if user == nil || task == nil {
		return false
	}
	return user.IsAdmin() || task.CreatedBy == user.ID
}
