// Package config loads server, database, auth and seed settings from
// defaults, an optional config.yaml and TASKTRACK_* environment variables,
// then validates them.
package config
