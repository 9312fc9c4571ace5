// Package sqlite implements the store interfaces on an embedded SQLite
// database through gorm. It serves local development and the store-level
// tests; the schema comes from gorm's AutoMigrate rather than goose.
package sqlite
