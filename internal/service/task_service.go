package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// defaultPageSize is used when the caller requests a non-positive page size.
const defaultPageSize = 10

// defaultSortField is used when the caller does not name a sort field.
const defaultSortField = "id"

// TaskInput carries the caller-supplied fields for creating or replacing a
// task. Status and Priority may be empty on create, in which case the domain
// defaults apply.
type TaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssignedTo  string
	DueDate     *time.Time
}

// ListRequest describes the page window and ordering requested by a caller.
// Out-of-range values are clamped rather than rejected: a negative page
// becomes 0, a non-positive size becomes the default, and any direction
// other than "desc" sorts ascending.
type ListRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

// TaskSummary aggregates task counts across the whole store.
type TaskSummary struct {
	TotalTasks      int64
	PendingTasks    int64
	InProgressTasks int64
	CompletedTasks  int64
	OverdueTasks    int64
}

// TaskService provides task-related operations on top of the store,
// owning transaction boundaries and input normalization.
type TaskService interface {
	// CreateTask creates a new task from the given input. The store-assigned
	// ID is set on the returned task.
	CreateTask(ctx context.Context, input TaskInput) (*domain.Task, error)

	// GetTask retrieves a task by its ID.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns one ordered, paged window of all tasks.
	ListTasks(ctx context.Context, req ListRequest) (*store.TaskPage, error)

	// UpdateTask replaces every mutable field of the task with the given ID.
	UpdateTask(ctx context.Context, id int64, input TaskInput) (*domain.Task, error)

	// DeleteTask removes the task with the given ID.
	DeleteTask(ctx context.Context, id int64) error

	// GetTasksByStatus returns all tasks in the given status.
	GetTasksByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// GetTasksByPriority returns all tasks with the given priority.
	GetTasksByPriority(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error)

	// GetTasksByAssignee returns all tasks assigned to the given person,
	// optionally narrowed to a single status.
	GetTasksByAssignee(
		ctx context.Context,
		assignedTo string,
		status *domain.TaskStatus,
	) ([]*domain.Task, error)

	// SearchTasksByTitle returns all tasks whose title contains the given
	// fragment, matched case-insensitively.
	SearchTasksByTitle(ctx context.Context, fragment string) ([]*domain.Task, error)

	// GetTasksDueBefore returns all tasks due before the given instant.
	GetTasksDueBefore(ctx context.Context, t time.Time) ([]*domain.Task, error)

	// GetOverdueTasks returns all uncompleted tasks whose due date has passed.
	GetOverdueTasks(ctx context.Context) ([]*domain.Task, error)

	// GetHighPriorityIncompleteTasks returns all uncompleted HIGH priority
	// tasks ordered by due date, undated tasks last.
	GetHighPriorityIncompleteTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTaskSummary returns aggregate counts across all tasks.
	GetTaskSummary(ctx context.Context) (*TaskSummary, error)

	// CompleteTask marks the task with the given ID as COMPLETED.
	CompleteTask(ctx context.Context, id int64) (*domain.Task, error)
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g. "create_task")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// Known sentinel errors pass through directly without wrapping so callers
// can match them with errors.Is.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	// Map store-level sentinels to service-level ones
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	if errors.Is(err, store.ErrInvalidSortField) {
		return err
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	db        *sql.DB
	taskStore store.TaskStore
	logger    *slog.Logger
	// now is swappable for tests
	now func() time.Time
}

// NewTaskService creates a new TaskService.
// The db handle is used for transaction boundaries; single-row reads and
// writes go through the store directly. It returns an error if any of the
// required dependencies are nil.
func NewTaskService(
	db *sql.DB,
	taskStore store.TaskStore,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "db cannot be nil",
		}
	}
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:        db,
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateTask creates a new task from the given input.
// The caller-supplied ID, if any, is ignored; the store assigns one.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	input TaskInput,
) (*domain.Task, error) {
	task, err := domain.NewTask(
		input.Title,
		input.Description,
		input.Status,
		input.Priority,
		input.AssignedTo,
		input.DueDate,
	)
	if err != nil {
		s.logger.Warn("rejected invalid task input",
			"error", err,
			"title", input.Title)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"title", input.Title)
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"status", task.Status,
		"priority", task.Priority)

	return task, nil
}

// GetTask retrieves a task by its ID.
func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("failed to retrieve task",
			"error", err,
			"task_id", id)
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// ListTasks returns one ordered, paged window of all tasks, with
// out-of-range paging values clamped to sane defaults.
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	req ListRequest,
) (*store.TaskPage, error) {
	page := store.ListPage{
		Page:      req.Page,
		Size:      req.Size,
		SortBy:    req.SortBy,
		Direction: store.SortAsc,
	}

	if page.Page < 0 {
		page.Page = 0
	}
	if page.Size <= 0 {
		page.Size = defaultPageSize
	}
	if page.SortBy == "" {
		page.SortBy = defaultSortField
	}
	// Direction is matched case-insensitively; anything but "desc" sorts
	// ascending.
	if strings.EqualFold(req.SortDir, string(store.SortDesc)) {
		page.Direction = store.SortDesc
	}

	result, err := s.taskStore.List(ctx, page)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSortField) {
			return nil, err
		}
		s.logger.Error("failed to list tasks",
			"error", err,
			"page", page.Page,
			"size", page.Size)
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return result, nil
}

// UpdateTask replaces every mutable field of the task with the given ID.
// The read-modify-write runs in a transaction so two concurrent updates
// cannot interleave.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	id int64,
	input TaskInput,
) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, id)
		if err != nil {
			return NewTaskServiceError("update_task", "failed to load task", err)
		}

		err = task.ApplyUpdate(
			input.Title,
			input.Description,
			input.Status,
			input.Priority,
			input.AssignedTo,
			input.DueDate,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := txStore.Update(ctx, task); err != nil {
			return NewTaskServiceError("update_task", "failed to save task", err)
		}

		updated = task
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) && !errors.Is(err, ErrInvalidInput) {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", id)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", id,
		"status", updated.Status)

	return updated, nil
}

// DeleteTask removes the task with the given ID.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	exists, err := s.taskStore.ExistsByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to check task existence",
			"error", err,
			"task_id", id)
		return NewTaskServiceError("delete_task", "failed to check task existence", err)
	}
	if !exists {
		return ErrTaskNotFound
	}

	if err := s.taskStore.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	return nil
}

// GetTasksByStatus returns all tasks in the given status.
func (s *taskServiceImpl) GetTasksByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindByStatus(ctx, status)
	if err != nil {
		s.logger.Error("failed to find tasks by status",
			"error", err,
			"status", status)
		return nil, NewTaskServiceError("get_tasks_by_status", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetTasksByPriority returns all tasks with the given priority.
func (s *taskServiceImpl) GetTasksByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindByPriority(ctx, priority)
	if err != nil {
		s.logger.Error("failed to find tasks by priority",
			"error", err,
			"priority", priority)
		return nil, NewTaskServiceError("get_tasks_by_priority", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetTasksByAssignee returns all tasks assigned to the given person,
// optionally narrowed to a single status.
func (s *taskServiceImpl) GetTasksByAssignee(
	ctx context.Context,
	assignedTo string,
	status *domain.TaskStatus,
) ([]*domain.Task, error) {
	var tasks []*domain.Task
	var err error

	if status != nil {
		tasks, err = s.taskStore.FindByAssignedToAndStatus(ctx, assignedTo, *status)
	} else {
		tasks, err = s.taskStore.FindByAssignedTo(ctx, assignedTo)
	}

	if err != nil {
		s.logger.Error("failed to find tasks by assignee",
			"error", err,
			"assigned_to", assignedTo)
		return nil, NewTaskServiceError("get_tasks_by_assignee", "failed to query tasks", err)
	}
	return tasks, nil
}

// SearchTasksByTitle returns all tasks whose title contains the given
// fragment, matched case-insensitively.
func (s *taskServiceImpl) SearchTasksByTitle(
	ctx context.Context,
	fragment string,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindByTitleContainingIgnoreCase(ctx, fragment)
	if err != nil {
		s.logger.Error("failed to search tasks by title",
			"error", err,
			"fragment", fragment)
		return nil, NewTaskServiceError("search_tasks", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetTasksDueBefore returns all tasks due before the given instant.
func (s *taskServiceImpl) GetTasksDueBefore(
	ctx context.Context,
	t time.Time,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindByDueDateBefore(ctx, t)
	if err != nil {
		s.logger.Error("failed to find tasks by due date",
			"error", err,
			"before", t)
		return nil, NewTaskServiceError("get_tasks_due_before", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetOverdueTasks returns all uncompleted tasks whose due date has passed.
func (s *taskServiceImpl) GetOverdueTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindOverdueTasks(ctx, s.now(), domain.TaskStatusCompleted)
	if err != nil {
		s.logger.Error("failed to find overdue tasks", "error", err)
		return nil, NewTaskServiceError("get_overdue_tasks", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetHighPriorityIncompleteTasks returns all uncompleted HIGH priority
// tasks ordered by due date, undated tasks last.
func (s *taskServiceImpl) GetHighPriorityIncompleteTasks(
	ctx context.Context,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.FindHighPriorityIncomplete(
		ctx,
		domain.TaskPriorityHigh,
		domain.TaskStatusCompleted,
	)
	if err != nil {
		s.logger.Error("failed to find high priority incomplete tasks", "error", err)
		return nil, NewTaskServiceError("get_high_priority_tasks", "failed to query tasks", err)
	}
	return tasks, nil
}

// GetTaskSummary returns aggregate counts across all tasks. The counts are
// taken from separate queries and may be momentarily inconsistent with each
// other under concurrent writes; the summary is informational.
func (s *taskServiceImpl) GetTaskSummary(ctx context.Context) (*TaskSummary, error) {
	total, err := s.taskStore.Count(ctx)
	if err != nil {
		return nil, NewTaskServiceError("get_task_summary", "failed to count tasks", err)
	}

	summary := &TaskSummary{TotalTasks: total}

	statusCounts := []struct {
		status domain.TaskStatus
		dest   *int64
	}{
		{domain.TaskStatusPending, &summary.PendingTasks},
		{domain.TaskStatusInProgress, &summary.InProgressTasks},
		{domain.TaskStatusCompleted, &summary.CompletedTasks},
	}

	for _, sc := range statusCounts {
		count, err := s.taskStore.CountByStatus(ctx, sc.status)
		if err != nil {
			s.logger.Error("failed to count tasks by status",
				"error", err,
				"status", sc.status)
			return nil, NewTaskServiceError("get_task_summary", "failed to count tasks", err)
		}
		*sc.dest = count
	}

	overdue, err := s.taskStore.FindOverdueTasks(ctx, s.now(), domain.TaskStatusCompleted)
	if err != nil {
		s.logger.Error("failed to count overdue tasks", "error", err)
		return nil, NewTaskServiceError("get_task_summary", "failed to count overdue tasks", err)
	}
	summary.OverdueTasks = int64(len(overdue))

	return summary, nil
}

// CompleteTask marks the task with the given ID as COMPLETED.
// Runs in a transaction for the same reason as UpdateTask.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	var completed *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, id)
		if err != nil {
			return NewTaskServiceError("complete_task", "failed to load task", err)
		}

		task.MarkCompleted()

		if err := txStore.Update(ctx, task); err != nil {
			return NewTaskServiceError("complete_task", "failed to save task", err)
		}

		completed = task
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			s.logger.Error("failed to complete task",
				"error", err,
				"task_id", id)
		}
		return nil, err
	}

	s.logger.Info("task completed", "task_id", id)
	return completed, nil
}
