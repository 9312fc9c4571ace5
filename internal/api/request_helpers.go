package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// getPathUUID parses the named chi path parameter as a UUID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", nil)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// parseAndValidate decodes the JSON body into req and runs its validate tags.
func parseAndValidate(r *http.Request, req any) error {
	if err := shared.DecodeJSON(r, req); err != nil {
		if errors.Is(err, shared.ErrEmptyBody) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.NewValidationError("body", "is not valid JSON", nil), err)
	}
	return shared.ValidateRequest(req)
}

// parseListParams reads page, size, sortBy, status and priority from the
// query string. Range checks are left to the task service.
func parseListParams(q url.Values) (service.ListParams, error) {
	var params service.ListParams

	ints := []struct {
		name string
		dst  *int
	}{
		{"page", &params.Page},
		{"size", &params.Size},
	}
	for _, p := range ints {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return params, domain.NewValidationError(p.name, "must be an integer", nil)
		}
		*p.dst = n
	}

	params.SortBy = q.Get("sortBy")
	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		params.Status = &status
	}
	if raw := q.Get("priority"); raw != "" {
		priority := domain.Priority(raw)
		params.Priority = &priority
	}
	return params, nil
}
