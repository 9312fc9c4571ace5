package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Role is the access level of a user account.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Username length limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 50
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	Active         bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates an active user with a fresh ID and timestamps.
// hashedPassword must already be hashed; plaintext never reaches the domain.
func NewUser(username, email, hashedPassword string, role Role) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Username:       strings.TrimSpace(username),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		Role:           role,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	n := utf8.RuneCountInString(u.Username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return NewValidationError("username", "must be between 3 and 50 characters", nil)
	}

	if u.Email == "" {
		return NewValidationError("email", "cannot be empty", nil)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return NewValidationError("email", "has invalid format", nil)
	}

	if u.HashedPassword == "" {
		return NewValidationError("password", "hash cannot be empty", nil)
	}

	if !u.Role.IsValid() {
		return NewValidationError("role", "must be ADMIN or USER", nil)
	}

	return nil
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
