package sqlite

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tasktrack-api/internal/store"
	"gorm.io/gorm"
)

// TxRunner implements store.TxRunner with gorm transactions.
type TxRunner struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTxRunner creates a TxRunner on db.
func NewTxRunner(db *gorm.DB, logger *slog.Logger) *TxRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &TxRunner{db: db, logger: logger}
}

var _ store.TxRunner = (*TxRunner)(nil)

// Stores returns stores that run outside any transaction.
func (r *TxRunner) Stores() store.Stores {
	return store.Stores{
		Users: NewUserStore(r.db, r.logger),
		Tasks: NewTaskStore(r.db, r.logger),
	}
}

// RunInTx implements store.TxRunner.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, stores store.Stores) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, store.Stores{
			Users: NewUserStore(tx, r.logger),
			Tasks: NewTaskStore(tx, r.logger),
		})
	})
}
