// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All queries are hand-written SQL over database/sql
// with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// taskColumns is the select list shared by every task query; scanTask
// expects columns in exactly this order.
const taskColumns = "id, title, description, status, priority, assigned_to, due_date, created_at, updated_at"

// sortableColumns whitelists the sort fields accepted by List and maps
// them from their transport names to column names. Sort fields are
// interpolated into the ORDER BY clause, so nothing outside this map may
// ever reach the query text.
var sortableColumns = map[string]string{
	"id":         "id",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"assignedTo": "assigned_to",
	"dueDate":    "due_date",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

// TaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &TaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It inserts a new task row and writes the database-assigned ID back to the
// entity. Returns validation errors if the task data is invalid.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (title, description, status, priority, assigned_to, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedTo,
		nullableTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)),
		slog.String("priority", string(task.Priority)))
	return nil
}

// Update implements store.TaskStore.Update
// It overwrites the full row matching the task's ID.
// Returns store.ErrTaskNotFound if no row matches.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    assigned_to = $5, due_date = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.AssignedTo,
		nullableTime(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", task.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for update", slog.Int64("task_id", task.ID))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf("SELECT %s FROM tasks WHERE id = $1", taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	return task, nil
}

// ExistsByID implements store.TaskStore.ExistsByID
func (s *TaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		"SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)",
		id,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check task existence",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return false, err
	}

	return exists, nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// List implements store.TaskStore.List
// It returns one ordered window of all tasks plus count metadata. The sort
// field must be present in the sortable column whitelist; unknown fields
// yield store.ErrInvalidSortField.
func (s *TaskStore) List(ctx context.Context, page store.ListPage) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	column, err := SortColumn(page.SortBy)
	if err != nil {
		log.Warn("rejected unknown sort field", slog.String("sort_by", page.SortBy))
		return nil, err
	}

	direction := "ASC"
	if page.Direction == store.SortDesc {
		direction = "DESC"
	}

	if page.Size <= 0 {
		page.Size = 10
	}
	if page.Page < 0 {
		page.Page = 0
	}

	total, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM tasks ORDER BY %s %s LIMIT $1 OFFSET $2",
		taskColumns, column, direction,
	)

	tasks, err := s.queryTasks(ctx, query, page.Size, page.Page*page.Size)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int("page", page.Page),
			slog.Int("size", page.Size))
		return nil, err
	}

	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))

	return &store.TaskPage{
		Tasks:         tasks,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// FindByStatus implements store.TaskStore.FindByStatus
func (s *TaskStore) FindByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE status = $1 ORDER BY id", taskColumns)
	return s.queryTasks(ctx, query, status)
}

// FindByPriority implements store.TaskStore.FindByPriority
func (s *TaskStore) FindByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE priority = $1 ORDER BY id", taskColumns)
	return s.queryTasks(ctx, query, priority)
}

// FindByAssignedTo implements store.TaskStore.FindByAssignedTo
func (s *TaskStore) FindByAssignedTo(
	ctx context.Context,
	assignedTo string,
) ([]*domain.Task, error) {
	query := fmt.Sprintf("SELECT %s FROM tasks WHERE assigned_to = $1 ORDER BY id", taskColumns)
	return s.queryTasks(ctx, query, assignedTo)
}

// FindByAssignedToAndStatus implements store.TaskStore.FindByAssignedToAndStatus
func (s *TaskStore) FindByAssignedToAndStatus(
	ctx context.Context,
	assignedTo string,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE assigned_to = $1 AND status = $2 ORDER BY id",
		taskColumns,
	)
	return s.queryTasks(ctx, query, assignedTo, status)
}

// FindByTitleContainingIgnoreCase implements store.TaskStore.FindByTitleContainingIgnoreCase
// The fragment is matched anywhere in the title using ILIKE; LIKE
// metacharacters in the fragment are escaped so they match literally.
func (s *TaskStore) FindByTitleContainingIgnoreCase(
	ctx context.Context,
	fragment string,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE title ILIKE '%%' || $1 || '%%' ESCAPE '\' ORDER BY id`,
		taskColumns,
	)
	return s.queryTasks(ctx, query, escapeLikePattern(fragment))
}

// FindByDueDateBefore implements store.TaskStore.FindByDueDateBefore
func (s *TaskStore) FindByDueDateBefore(
	ctx context.Context,
	t time.Time,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE due_date < $1 ORDER BY due_date",
		taskColumns,
	)
	return s.queryTasks(ctx, query, t)
}

// FindOverdueTasks implements store.TaskStore.FindOverdueTasks
func (s *TaskStore) FindOverdueTasks(
	ctx context.Context,
	now time.Time,
	excludedStatus domain.TaskStatus,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE due_date < $1 AND status != $2 ORDER BY due_date",
		taskColumns,
	)
	return s.queryTasks(ctx, query, now, excludedStatus)
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	if err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *TaskStore) CountByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(
		ctx,
		"SELECT COUNT(*) FROM tasks WHERE status = $1",
		status,
	).Scan(&count)
	if err != nil {
		log.Error("failed to count tasks by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return 0, err
	}

	return count, nil
}

// FindHighPriorityIncomplete implements store.TaskStore.FindHighPriorityIncomplete
// Undated tasks sort last: a task with no due date cannot be ordered by
// urgency.
func (s *TaskStore) FindHighPriorityIncomplete(
	ctx context.Context,
	priority domain.TaskPriority,
	excludedStatus domain.TaskStatus,
) ([]*domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE priority = $1 AND status != $2 ORDER BY due_date ASC NULLS LAST",
		taskColumns,
	)
	return s.queryTasks(ctx, query, priority, excludedStatus)
}

// SortColumn resolves a transport-level sort field name to its column name.
// Returns store.ErrInvalidSortField for anything outside the whitelist.
func SortColumn(sortBy string) (string, error) {
	column, ok := sortableColumns[sortBy]
	if !ok {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidSortField, sortBy)
	}
	return column, nil
}

// queryTasks runs a multi-row task query and scans the results.
// Returns an empty slice, never nil, when nothing matches.
func (s *TaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row in taskColumns order.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status, priority string
	var dueDate sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.AssignedTo,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if dueDate.Valid {
		t := dueDate.Time
		task.DueDate = &t
	}

	return &task, nil
}

// escapeLikePattern escapes LIKE metacharacters so a search fragment
// matches literally inside an ILIKE pattern.
func escapeLikePattern(fragment string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(fragment)
}

// nullableTime converts an optional time to its database representation.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
