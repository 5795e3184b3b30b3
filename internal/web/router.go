package web

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"tasktrack/internal/config"
	"tasktrack/internal/task"
	"tasktrack/internal/user"
	"tasktrack/middleware"
	"tasktrack/pkg/res"
)

// Handler wires the API surface onto a mux router
type Handler struct {
	users      *user.UserHandlers
	tasks      *task.TaskHandlers
	middleware *middleware.Middleware
	cfg        *config.Config
}

// NewHandler creates a new Handler
func NewHandler(users *user.UserHandlers, tasks *task.TaskHandlers, mw *middleware.Middleware, cfg *config.Config) *Handler {
	return &Handler{users: users, tasks: tasks, middleware: mw, cfg: cfg}
}

func (h *Handler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Liveness, unauthenticated
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	// Auth endpoints
	r.HandleFunc("/auth/signup", h.users.Signup).Methods("POST")
	r.HandleFunc("/auth/login", h.users.Login).Methods("POST")

	// Protected user endpoints
	r.HandleFunc("/users/me", h.middleware.Authenticate(h.users.Me)).Methods("GET")

	// Protected task endpoints; both / and non-/ collection forms are served
	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.HandleFunc("", h.middleware.Authenticate(h.tasks.ListTasks)).Methods("GET")
	tasks.HandleFunc("/", h.middleware.Authenticate(h.tasks.ListTasks)).Methods("GET")
	tasks.HandleFunc("", h.middleware.Authenticate(h.tasks.CreateTask)).Methods("POST")
	tasks.HandleFunc("/", h.middleware.Authenticate(h.tasks.CreateTask)).Methods("POST")
	tasks.HandleFunc("/{id:[0-9]+}", h.middleware.Authenticate(h.tasks.GetTask)).Methods("GET")
	tasks.HandleFunc("/{id:[0-9]+}", h.middleware.Authenticate(h.tasks.UpdateTask)).Methods("PUT")
	tasks.HandleFunc("/{id:[0-9]+}", h.middleware.Authenticate(h.tasks.DeleteTask)).Methods("DELETE")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}

// Root verifies API and database connectivity for uptime monitors
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	res.Json(w, map[string]string{
		"message": fmt.Sprintf("%s is running and connected to the database.", h.cfg.AppName),
	}, http.StatusOK)
}

// Health is a lightweight healthcheck endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	res.Json(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	res.Error(w, "not found", http.StatusNotFound)
}
