package mocks

import (
	"context"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockTxRunner implements store.TxRunner by calling fn with Stores directly.
// There is no rollback; tests that need one use the SQLite runner.
type MockTxRunner struct {
	Stores store.Stores

	// Err, when set, is returned without calling fn.
	Err error

	Calls int
}

// NewMockTxRunner creates a runner over the given stores.
func NewMockTxRunner(users store.UserStore, tasks store.TaskStore) *MockTxRunner {
	return &MockTxRunner{Stores: store.Stores{Users: users, Tasks: tasks}}
}

// RunInTx implements the TxRunner interface
func (m *MockTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, m.Stores)
}
