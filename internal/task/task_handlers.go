package task

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tasktrack/middleware"
	"tasktrack/models"
	"tasktrack/pkg/res"
)

type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskHandlers exposes the task CRUD endpoints. All of them require an
// authenticated caller; lookups never distinguish a missing task from one
// owned by somebody else.
type TaskHandlers struct {
	Service *TaskService
}

// NewTaskHandlers creates new task handlers
func NewTaskHandlers(service *TaskService) *TaskHandlers {
	return &TaskHandlers{Service: service}
}

// ListTasks returns all tasks owned by the caller
func (h *TaskHandlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	tasks := []*models.Task{}
	found, err := h.Service.List(r.Context(), user.ID)
	if err != nil {
		res.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}
	if found != nil {
		tasks = found
	}

	res.Json(w, tasks, http.StatusOK)
}

// CreateTask stores a new task owned by the caller
func (h *TaskHandlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	var payload TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		res.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.Service.Create(r.Context(), user.ID, payload.Title, payload.Description)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	res.Json(w, task, http.StatusCreated)
}

// GetTask returns one of the caller's tasks by id
func (h *TaskHandlers) GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	task, err := h.Service.Get(r.Context(), user.ID, taskID(r))
	if err != nil {
		writeTaskError(w, err)
		return
	}

	res.Json(w, task, http.StatusOK)
}

// UpdateTask mutates one of the caller's tasks by id
func (h *TaskHandlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	var payload TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		res.Error(w, "invalid request format", http.StatusBadRequest)
		return
	}

	task, err := h.Service.Update(r.Context(), user.ID, taskID(r), payload.Title, payload.Description, payload.Completed)
	if err != nil {
		writeTaskError(w, err)
		return
	}

	res.Json(w, task, http.StatusOK)
}

// DeleteTask removes one of the caller's tasks by id
func (h *TaskHandlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		res.Error(w, "could not validate credentials", http.StatusUnauthorized)
		return
	}

	if err := h.Service.Delete(r.Context(), user.ID, taskID(r)); err != nil {
		writeTaskError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskID reads the id path variable. The route pattern constrains it to
// digits, so parse failures cannot occur for matched requests.
func taskID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		res.Error(w, "Task not found", http.StatusNotFound)
	case errors.Is(err, ErrTaskInvalidArgs):
		res.Error(w, "title is required and must be at most 200 characters", http.StatusUnprocessableEntity)
	default:
		res.Error(w, "internal error", http.StatusInternalServerError)
	}
}
