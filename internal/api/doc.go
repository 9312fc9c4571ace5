// Package api exposes the task tracker over HTTP: the auth and task
// handlers, request and response models, and the mapping from service
// errors to status codes and client-safe messages.
package api
