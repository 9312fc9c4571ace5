// Package store declares the persistence contracts for users and tasks:
// the store interfaces, the task listing query, transaction plumbing and
// the store error sentinels. Implementations live under internal/platform.
package store
