// Package api implements the HTTP transport layer: request decoding,
// validation, error mapping, and response shaping.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/service"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CreateTaskRequest represents the request body for creating a new task.
// Status and priority are optional; the service applies defaults.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=4000"`
	Status      string     `json:"status"      validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	AssignedTo  string     `json:"assignedTo"  validate:"max=255"`
	DueDate     *time.Time `json:"dueDate"`
}

// UpdateTaskRequest represents the request body for replacing a task.
// Updates are full replacements, so status and priority are required.
type UpdateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=4000"`
	Status      string     `json:"status"      validate:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
	Priority    string     `json:"priority"    validate:"required,oneof=LOW MEDIUM HIGH"`
	AssignedTo  string     `json:"assignedTo"  validate:"max=255"`
	DueDate     *time.Time `json:"dueDate"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskPageResponse is the envelope for paged task listings.
type TaskPageResponse struct {
	Content       []TaskResponse `json:"content"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}

// TaskSummaryResponse aggregates task counts for the summary endpoint.
type TaskSummaryResponse struct {
	TotalTasks      int64 `json:"totalTasks"`
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	OverdueTasks    int64 `json:"overdueTasks"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// CreateTask handles POST /api/tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /api/tasks requests with paging and sorting
// query parameters.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	req := service.ListRequest{
		Page:    queryInt(r, "page", 0),
		Size:    queryInt(r, "size", 10),
		SortBy:  r.URL.Query().Get("sortBy"),
		SortDir: r.URL.Query().Get("sortDir"),
	}

	page, err := h.taskService.ListTasks(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskPageToResponse(page))
}

// GetTask handles GET /api/tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id} requests. The body replaces every
// mutable field of the task.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTasksByStatus handles GET /api/tasks/status/{status} requests.
func (h *TaskHandler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := domain.ParseTaskStatus(chi.URLParam(r, "status"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	tasks, err := h.taskService.GetTasksByStatus(r.Context(), status)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTasksByPriority handles GET /api/tasks/priority/{priority} requests.
func (h *TaskHandler) GetTasksByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := domain.ParseTaskPriority(chi.URLParam(r, "priority"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	tasks, err := h.taskService.GetTasksByPriority(r.Context(), priority)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTasksByAssignee handles GET /api/tasks/assignee/{assignedTo} requests.
// An optional status query parameter narrows the result to one status.
func (h *TaskHandler) GetTasksByAssignee(w http.ResponseWriter, r *http.Request) {
	assignedTo := chi.URLParam(r, "assignedTo")

	var statusFilter *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		statusFilter = &status
	}

	tasks, err := h.taskService.GetTasksByAssignee(r.Context(), assignedTo, statusFilter)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// SearchTasks handles GET /api/tasks/search?title= requests.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'title' is required")
		return
	}

	tasks, err := h.taskService.SearchTasksByTitle(r.Context(), title)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTasksDueBefore handles GET /api/tasks/due-before?date= requests.
// The date must be RFC 3339.
func (h *TaskHandler) GetTasksDueBefore(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'date' is required")
		return
	}

	before, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter 'date' must be RFC 3339")
		return
	}

	tasks, err := h.taskService.GetTasksDueBefore(r.Context(), before)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetOverdueTasks handles GET /api/tasks/overdue requests.
func (h *TaskHandler) GetOverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetOverdueTasks(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetHighPriorityTasks handles GET /api/tasks/high-priority requests,
// returning uncompleted HIGH priority tasks ordered by urgency.
func (h *TaskHandler) GetHighPriorityTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetHighPriorityIncompleteTasks(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTaskSummary handles GET /api/tasks/summary requests.
func (h *TaskHandler) GetTaskSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.taskService.GetTaskSummary(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TaskSummaryResponse{
		TotalTasks:      summary.TotalTasks,
		PendingTasks:    summary.PendingTasks,
		InProgressTasks: summary.InProgressTasks,
		CompletedTasks:  summary.CompletedTasks,
		OverdueTasks:    summary.OverdueTasks,
	})
}

// CompleteTask handles PUT /api/tasks/{id}/complete requests.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	task, err := h.taskService.CompleteTask(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// respondServiceError maps a service error to its HTTP status and writes the
// sanitized response, logging the underlying error.
func (h *TaskHandler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		AssignedTo:  task.AssignedTo,
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponse converts a task slice, returning an empty slice rather
// than nil so the JSON is always an array.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, taskToResponse(task))
	}
	return out
}

// taskPageToResponse converts a store.TaskPage to the paging envelope.
func taskPageToResponse(page *store.TaskPage) TaskPageResponse {
	return TaskPageResponse{
		Content:       tasksToResponse(page.Tasks),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Page:          page.Page,
		Size:          page.Size,
	}
}
