package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler serves the /tasks endpoints. Every route needs the auth
// middleware in front of it.
type TaskHandler struct {
	tasks    service.TaskService
	identity service.IdentityResolver
	logger   *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService, identity service.IdentityResolver, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:    tasks,
		identity: identity,
		logger:   logger.With(slog.String("component", "task_handler")),
	}
}

// actor resolves the caller's user record from the token identity.
func (h *TaskHandler) actor(ctx context.Context) (*domain.User, error) {
	id, ok := shared.IdentityFromContext(ctx)
	if !ok {
		return nil, errUnresolvedIdentity
	}
	user, err := h.identity.Resolve(ctx, id.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUnresolvedIdentity, err)
	}
	if user.ID != id.UserID {
		return nil, fmt.Errorf("%w: token user id does not match account", errUnresolvedIdentity)
	}
	return user, nil
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req TaskRequest
	if err := parseAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	view, err := h.tasks.Create(r.Context(), actor, req.Draft())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(view))
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	params, err := parseListParams(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	views, err := h.tasks.List(r.Context(), actor, params)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(views))
}

// ListMyTasks handles GET /tasks/my-tasks.
func (h *TaskHandler) ListMyTasks(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	views, err := h.tasks.ListMine(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(views))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	view, err := h.tasks.Get(r.Context(), actor, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(view))
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var req TaskRequest
	if err := parseAndValidate(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	view, err := h.tasks.Update(r.Context(), actor, taskID, req.Draft())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(view))
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	taskID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.tasks.Delete(r.Context(), actor, taskID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task delete served",
		slog.String("task_id", taskID.String()))
	shared.RespondWithMessage(w, r, http.StatusOK, "Task deleted successfully")
}
