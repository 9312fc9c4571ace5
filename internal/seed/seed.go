// Package seed loads a small demo data set into an empty database.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type demoUser struct {
	username string
	email    string
	password string
	role     domain.Role
}

type demoTask struct {
	title       string
	description string
	status      domain.TaskStatus
	priority    domain.Priority
	creator     string
	assignee    string
}

var demoUsers = []demoUser{
	{"admin", "admin@example.com", "Admin@123", domain.RoleAdmin},
	{"user1", "user@example.com", "User@123", domain.RoleUser},
	{"user2", "user2@example.com", "User@123", domain.RoleUser},
}

var demoTasks = []demoTask{
	{
		title:       "Setup Project Environment",
		description: "Install and configure all necessary development tools and dependencies",
		status:      domain.TaskStatusDone,
		priority:    domain.PriorityHigh,
		creator:     "admin",
		assignee:    "user1",
	},
	{
		title:       "Implement User Authentication",
		description: "Create JWT-based authentication system with login and registration",
		status:      domain.TaskStatusInProgress,
		priority:    domain.PriorityHigh,
		creator:     "admin",
		assignee:    "user1",
	},
	{
		title:       "Design Database Schema",
		description: "Create ER diagram and design database tables for the application",
		status:      domain.TaskStatusDone,
		priority:    domain.PriorityMedium,
		creator:     "user1",
		assignee:    "user2",
	},
	{
		title:       "Write API Documentation",
		description: "Document all REST API endpoints with examples and response formats",
		status:      domain.TaskStatusTodo,
		priority:    domain.PriorityMedium,
		creator:     "user1",
		assignee:    "user2",
	},
	{
		title:       "Implement Unit Tests",
		description: "Write comprehensive unit tests for all service and controller methods",
		status:      domain.TaskStatusTodo,
		priority:    domain.PriorityLow,
		creator:     "user2",
	},
}

// Seeder inserts the demo users and tasks.
type Seeder struct {
	users  store.UserStore
	tx     store.TxRunner
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// New creates a Seeder. users is read outside the transaction to decide
// whether seeding is needed.
func New(users store.UserStore, tx store.TxRunner, hasher auth.PasswordHasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		users:  users,
		tx:     tx,
		hasher: hasher,
		logger: logger.With(slog.String("component", "seed")),
	}
}

// Run seeds the demo data if no users exist yet. It reports whether
// anything was written. All rows are inserted in one transaction.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		s.logger.Debug("users present, skipping demo data", slog.Int64("users", count))
		return false, nil
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, stores store.Stores) error {
		created := make(map[string]*domain.User, len(demoUsers))
		for _, du := range demoUsers {
			hashed, err := s.hasher.Hash(du.password)
			if err != nil {
				return err
			}
			user, err := domain.NewUser(du.username, du.email, hashed, du.role)
			if err != nil {
				return fmt.Errorf("demo user %s: %w", du.username, err)
			}
			if err := stores.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("create demo user %s: %w", du.username, err)
			}
			created[du.username] = user
		}

		// Spread creation times so listings have a stable newest-first order.
		base := time.Now().UTC().Add(-time.Duration(len(demoTasks)) * time.Minute)
		for i, dt := range demoTasks {
			draft := domain.TaskDraft{
				Title:       dt.title,
				Description: dt.description,
				Status:      dt.status,
				Priority:    dt.priority,
			}
			if dt.assignee != "" {
				id := created[dt.assignee].ID
				draft.AssignedToID = &id
			}

			task, err := domain.NewTask(created[dt.creator].ID, draft)
			if err != nil {
				return fmt.Errorf("demo task %q: %w", dt.title, err)
			}
			task.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			task.UpdatedAt = task.CreatedAt
			if err := stores.Tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("create demo task %q: %w", dt.title, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seed demo data: %w", err)
	}

	s.logger.Info("demo data loaded",
		slog.Int("users", len(demoUsers)),
		slog.Int("tasks", len(demoTasks)))
	for _, du := range demoUsers {
		s.logger.Info("demo account",
			slog.String("role", string(du.role)),
			slog.String("email", du.email))
	}
	return true, nil
}
