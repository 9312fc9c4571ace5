package testdb

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/platform/sqlite"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup work against an external database.
const TestTimeout = 10 * time.Second

// Backend is one storage implementation under test.
type Backend struct {
	Name   string
	Stores store.Stores
	Tx     store.TxRunner
}

// DatabaseURL returns the PostgreSQL URL for tests, checking DATABASE_URL
// and then TASKTRACK_TEST_DB_URL.
func DatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("TASKTRACK_TEST_DB_URL")
}

// IsIntegrationTestEnvironment reports whether a PostgreSQL URL is configured.
func IsIntegrationTestEnvironment() bool {
	return DatabaseURL() != ""
}

// SQLite returns a migrated in-memory SQLite backend closed at test cleanup.
func SQLite(t *testing.T) Backend {
	t.Helper()

	db, err := sqlite.Open(":memory:", Logger(t))
	require.NoError(t, err, "open sqlite")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	runner := sqlite.NewTxRunner(db, Logger(t))
	return Backend{Name: "sqlite", Stores: runner.Stores(), Tx: runner}
}

// Postgres returns a migrated, empty PostgreSQL backend. The test is skipped
// when no database URL is configured.
func Postgres(t *testing.T) Backend {
	t.Helper()

	if !IsIntegrationTestEnvironment() {
		t.Skip("DATABASE_URL not set, skipping PostgreSQL backend")
	}
	url := DatabaseURL()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, url)
	require.NoError(t, err, "open postgres")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, postgres.Migrate(ctx, db, "up", Logger(t)), "migrate postgres")
	_, err = db.ExecContext(ctx, "TRUNCATE tasks, users CASCADE")
	require.NoError(t, err, "truncate tables")

	runner := postgres.NewTxRunner(db, Logger(t))
	return Backend{Name: "postgres", Stores: runner.Stores(), Tx: runner}
}

// Each runs fn as a subtest against every backend available in this
// environment. Subtests run sequentially because PostgreSQL backends share
// one database.
func Each(t *testing.T, fn func(t *testing.T, b Backend)) {
	t.Helper()

	openers := []struct {
		name string
		open func(*testing.T) Backend
	}{
		{"sqlite", SQLite},
		{"postgres", Postgres},
	}
	for _, o := range openers {
		t.Run(o.name, func(t *testing.T) {
			fn(t, o.open(t))
		})
	}
}

// Logger returns a slog logger that writes through t.Log, so database
// output shows up only for failing tests or with -v.
func Logger(t *testing.T) *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
