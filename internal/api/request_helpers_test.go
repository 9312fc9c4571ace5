package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	got, err := getPathUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope")
	_, err = getPathUUID(req, "id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = getPathUUID(httptest.NewRequest(http.MethodGet, "/", nil), "id")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseAndValidate(t *testing.T) {
	t.Parallel()

	var req TaskRequest
	body := `{"title":"Plan sprint","status":"TODO","priority":"LOW"}`
	require.NoError(t, parseAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), &req))
	assert.Equal(t, "Plan sprint", req.Title)
	assert.Nil(t, req.AssignedToID)

	err := parseAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &req)
	assert.ErrorIs(t, err, shared.ErrEmptyBody)

	err = parseAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")), &req)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// createdBy is not a request field and cannot be smuggled in.
	smuggled := `{"title":"x","status":"TODO","priority":"LOW","createdBy":"` + uuid.NewString() + `"}`
	err = parseAndValidate(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(smuggled)), &TaskRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseListParams(t *testing.T) {
	t.Parallel()

	params, err := parseListParams(url.Values{
		"page":     {"2"},
		"size":     {"25"},
		"sortBy":   {"title"},
		"status":   {"DONE"},
		"priority": {"HIGH"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, params.Page)
	assert.Equal(t, 25, params.Size)
	assert.Equal(t, "title", params.SortBy)
	require.NotNil(t, params.Status)
	assert.Equal(t, domain.TaskStatusDone, *params.Status)
	require.NotNil(t, params.Priority)
	assert.Equal(t, domain.PriorityHigh, *params.Priority)

	empty, err := parseListParams(url.Values{})
	require.NoError(t, err)
	assert.Zero(t, empty.Page)
	assert.Nil(t, empty.Status)

	_, err = parseListParams(url.Values{"page": {"first"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
