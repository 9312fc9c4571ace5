// Package testdb opens throwaway databases for tests. SQLite runs in memory
// and is always available; PostgreSQL is used only when DATABASE_URL (or
// TASKTRACK_TEST_DB_URL) points at a disposable database, since every open
// truncates its tables.
package testdb
