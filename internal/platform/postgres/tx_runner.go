package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TxRunner implements store.TxRunner with database/sql transactions.
type TxRunner struct {
	db    *sql.DB
	users *PostgresUserStore
	tasks *PostgresTaskStore
}

// NewTxRunner creates a TxRunner whose transactional stores share logger.
func NewTxRunner(db *sql.DB, logger *slog.Logger) *TxRunner {
	return &TxRunner{
		db:    db,
		users: NewPostgresUserStore(db, logger),
		tasks: NewPostgresTaskStore(db, logger),
	}
}

var _ store.TxRunner = (*TxRunner)(nil)

// Stores returns the non-transactional stores.
func (r *TxRunner) Stores() store.Stores {
	return store.Stores{Users: r.users, Tasks: r.tasks}
}

// RunInTx implements store.TxRunner.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, store.Stores{
			Users: r.users.WithTx(tx),
			Tasks: r.tasks.WithTx(tx),
		})
	})
}
