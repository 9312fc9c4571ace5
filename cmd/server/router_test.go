package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasktrack-api/internal/api"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/config"
	"github.com/phrazzld/tasktrack-api/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 0, LogLevel: "error"},
		Database: config.DatabaseConfig{Driver: "sqlite", URL: ":memory:"},
		Auth: config.AuthConfig{
			JWTSecret:                   "test-secret-that-is-at-least-32-characters",
			TokenLifetimeMinutes:        60,
			RefreshTokenLifetimeMinutes: 120,
			BCryptCost:                  4,
		},
		Seed: config.SeedConfig{DemoData: true},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := openStorage(context.Background(), cfg, log)
	require.NoError(t, err)
	app, err := newApplication(cfg, log, st)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	_, err = seed.New(st.stores.Users, st.tx, app.hasher, log).Run(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func login(t *testing.T, srv *httptest.Server, email, password string) api.AuthResponse {
	t.Helper()
	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out api.AuthResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Username: "newbie",
		Email:    "newbie@example.com",
		Password: "Secret@123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"message":"User registered successfully"}`, string(body))

	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", "", api.RegisterRequest{
		Username: "newbie",
		Email:    "other@example.com",
		Password: "Secret@123",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "Username is already taken")

	auth := login(t, srv, "newbie@example.com", "Secret@123")
	assert.Equal(t, "newbie", auth.Username)
	assert.Equal(t, "USER", string(auth.Role))
	assert.NotEmpty(t, auth.Token)
	assert.NotEmpty(t, auth.RefreshToken)

	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/auth/login", "", api.LoginRequest{
		Email:    "newbie@example.com",
		Password: "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/auth/refresh", "", api.RefreshTokenRequest{
		RefreshToken: auth.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	// An access token is not a refresh token.
	resp, _ = doJSON(t, srv, http.MethodPost, "/api/v1/auth/refresh", "", api.RefreshTokenRequest{
		RefreshToken: auth.Token,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTaskRoutes(t *testing.T) {
	srv := newTestServer(t)

	admin := login(t, srv, "admin@example.com", "Admin@123")
	user1 := login(t, srv, "user@example.com", "User@123")
	user2 := login(t, srv, "user2@example.com", "User@123")

	resp, _ := doJSON(t, srv, http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var all []api.TaskResponse
	resp, body := doJSON(t, srv, http.MethodGet, "/api/v1/tasks?size=100", admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 5)

	var mine []api.TaskResponse
	resp, body = doJSON(t, srv, http.MethodGet, "/api/v1/tasks", user1.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 2)
	for _, task := range mine {
		assert.Equal(t, user1.ID, task.CreatedBy.ID)
	}

	resp, body = doJSON(t, srv, http.MethodPost, "/api/v1/tasks", user2.Token, api.TaskRequest{
		Title:        "Review PR",
		Status:       "TODO",
		Priority:     "HIGH",
		AssignedToID: &user1.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created api.TaskResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, user2.ID, created.CreatedBy.ID)
	require.NotNil(t, created.AssignedTo)
	assert.Equal(t, "user1", created.AssignedTo.Username)
	assert.NotContains(t, string(body), "password")

	taskPath := "/api/v1/tasks/" + created.ID.String()

	resp, _ = doJSON(t, srv, http.MethodGet, taskPath, user1.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "assignee has no rights")

	resp, body = doJSON(t, srv, http.MethodPut, taskPath, user2.Token, api.TaskRequest{
		Title:    "Review PR",
		Status:   "DONE",
		Priority: "HIGH",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Nil(t, raw["assignedTo"])
	assert.Contains(t, raw, "assignedTo")
	assert.Equal(t, "DONE", raw["status"])

	resp, _ = doJSON(t, srv, http.MethodDelete, taskPath, user2.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "owners cannot delete")

	resp, body = doJSON(t, srv, http.MethodDelete, taskPath, admin.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, string(body))

	resp, body = doJSON(t, srv, http.MethodGet, taskPath, admin.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errBody shared.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Equal(t, "Task not found", errBody.Error)
	assert.NotEmpty(t, errBody.TraceID)
}

func TestTaskRoutes_BadInput(t *testing.T) {
	srv := newTestServer(t)
	user1 := login(t, srv, "user@example.com", "User@123")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"invalid sort", http.MethodGet, "/api/v1/tasks?sortBy=password", nil},
		{"negative page", http.MethodGet, "/api/v1/tasks?page=-1", nil},
		{"non-numeric size", http.MethodGet, "/api/v1/tasks?size=ten", nil},
		{"bad id", http.MethodGet, "/api/v1/tasks/not-a-uuid", nil},
		{"missing title", http.MethodPost, "/api/v1/tasks", api.TaskRequest{Status: "TODO", Priority: "LOW"}},
		{"bad status", http.MethodPost, "/api/v1/tasks", api.TaskRequest{Title: "x", Status: "BLOCKED", Priority: "LOW"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, srv, tc.method, tc.path, user1.Token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/v1/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
