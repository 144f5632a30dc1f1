package api

import (
	"net/http"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
)

// HomeResponse is the service metadata returned from the root path.
type HomeResponse struct {
	Application string            `json:"application"`
	Version     string            `json:"version"`
	Status      string            `json:"status"`
	Endpoints   map[string]string `json:"endpoints"`
	Message     string            `json:"message"`
}

// HomeHandler serves static service metadata from the root path.
type HomeHandler struct {
	version string
}

// NewHomeHandler creates a new HomeHandler reporting the given version.
func NewHomeHandler(version string) *HomeHandler {
	return &HomeHandler{version: version}
}

// Home handles GET / requests.
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HomeResponse{
		Application: "Task Management System",
		Version:     h.version,
		Status:      "Running",
		Endpoints: map[string]string{
			"tasks":   "/api/tasks",
			"summary": "/api/tasks/summary",
			"health":  "/health",
		},
		Message: "Welcome to the Task Management System API!",
	})
}

// HealthCheck handles GET /health requests.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
