package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// ContextKey namespaces request context values set by this package.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's id.
	UserIDContextKey ContextKey = "userID"

	// EmailContextKey holds the authenticated user's email.
	EmailContextKey ContextKey = "email"

	// TraceIDKey holds the request trace id.
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of random bytes in a trace id.
	TraceIDLength = 16
)

// Identity is what the auth middleware learned from a verified token.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, UserIDContextKey, id.UserID)
	return context.WithValue(ctx, EmailContextKey, id.Email)
}

// IdentityFromContext returns the identity set by WithIdentity. ok is false
// when either part is missing or empty.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	userID, _ := ctx.Value(UserIDContextKey).(uuid.UUID)
	email, _ := ctx.Value(EmailContextKey).(string)
	if userID == uuid.Nil || email == "" {
		return Identity{}, false
	}
	return Identity{UserID: userID, Email: email}, true
}

// SetTraceID adds a fresh trace id to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID returns the trace id, or "" if none was set.
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// generateTraceID returns 32 hex characters. If the system random source
// fails it falls back to a random UUID.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		id := uuid.New()
		return hex.EncodeToString(id[:])
	}
	return hex.EncodeToString(b)
}
