package store

import "context"

// Stores groups the stores that take part in one unit of work.
type Stores struct {
	Users UserStore
	Tasks TaskStore
}

// TxRunner runs fn with stores bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
