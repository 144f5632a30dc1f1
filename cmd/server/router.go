package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tasktrack/tasktrack-api/internal/api"
	apiMiddleware "github.com/tasktrack/tasktrack-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Literal task sub-paths (summary, overdue, search, ...) win
// over the {id} routes because chi matches static segments first; a
// non-numeric id falls through to the handler, which rejects it with 400.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	taskHandler := api.NewTaskHandler(app.taskService)
	homeHandler := api.NewHomeHandler(version)

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", taskHandler.CreateTask)
		r.Get("/", taskHandler.ListTasks)

		r.Get("/summary", taskHandler.GetTaskSummary)
		r.Get("/overdue", taskHandler.GetOverdueTasks)
		r.Get("/high-priority", taskHandler.GetHighPriorityTasks)
		r.Get("/due-before", taskHandler.GetTasksDueBefore)
		r.Get("/search", taskHandler.SearchTasks)
		r.Get("/status/{status}", taskHandler.GetTasksByStatus)
		r.Get("/priority/{priority}", taskHandler.GetTasksByPriority)
		r.Get("/assignee/{assignedTo}", taskHandler.GetTasksByAssignee)

		r.Get("/{id}", taskHandler.GetTask)
		r.Put("/{id}", taskHandler.UpdateTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
		r.Put("/{id}/complete", taskHandler.CompleteTask)
	})

	r.Get("/", homeHandler.Home)
	r.Get("/health", api.HealthCheck)

	return r
}
