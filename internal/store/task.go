package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// SortDirection is the ordering applied to a sorted list query.
type SortDirection string

// Valid sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListPage describes the window and ordering for a paged list query.
// Page is zero-based.
type ListPage struct {
	Page      int
	Size      int
	SortBy    string
	Direction SortDirection
}

// TaskPage is one window of an ordered task listing, together with the
// count metadata needed to compute total pages.
type TaskPage struct {
	Tasks         []*domain.Task
	TotalElements int64
	TotalPages    int
	Page          int
	Size          int
}

// TaskStore defines the interface for task data persistence.
//
// Filter methods return an empty slice, never nil, when nothing matches.
// Methods that target a single task by ID return ErrTaskNotFound when the
// ID does not resolve.
type TaskStore interface {
	// Create inserts a new task. The store assigns the ID and writes it
	// back to the given entity. Returns validation errors if the task
	// data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// Update overwrites the full row matching the task's ID.
	// Returns ErrTaskNotFound if no row matches.
	Update(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// ExistsByID reports whether a task with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Delete removes a task by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id int64) error

	// List returns one ordered window of all tasks plus count metadata.
	// The sort field is validated against a column whitelist; an unknown
	// field yields ErrInvalidSortField.
	List(ctx context.Context, page ListPage) (*TaskPage, error)

	// FindByStatus returns all tasks with the given status.
	FindByStatus(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)

	// FindByPriority returns all tasks with the given priority.
	FindByPriority(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error)

	// FindByAssignedTo returns all tasks assigned to the given person.
	FindByAssignedTo(ctx context.Context, assignedTo string) ([]*domain.Task, error)

	// FindByAssignedToAndStatus returns all tasks assigned to the given
	// person that are in the given status.
	FindByAssignedToAndStatus(
		ctx context.Context,
		assignedTo string,
		status domain.TaskStatus,
	) ([]*domain.Task, error)

	// FindByTitleContainingIgnoreCase returns all tasks whose title
	// contains the given fragment, matched case-insensitively.
	FindByTitleContainingIgnoreCase(ctx context.Context, fragment string) ([]*domain.Task, error)

	// FindByDueDateBefore returns all tasks due before the given instant,
	// regardless of status.
	FindByDueDateBefore(ctx context.Context, t time.Time) ([]*domain.Task, error)

	// FindOverdueTasks returns all tasks with a due date before now whose
	// status is not the excluded status.
	FindOverdueTasks(
		ctx context.Context,
		now time.Time,
		excludedStatus domain.TaskStatus,
	) ([]*domain.Task, error)

	// Count returns the total number of tasks.
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns the number of tasks with the given status.
	CountByStatus(ctx context.Context, status domain.TaskStatus) (int64, error)

	// FindHighPriorityIncomplete returns all tasks with the given priority
	// whose status is not the excluded status, ordered by due date
	// ascending with undated tasks last.
	FindHighPriorityIncomplete(
		ctx context.Context,
		priority domain.TaskPriority,
		excludedStatus domain.TaskStatus,
	) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller,
	// typically through RunInTransaction.
	WithTx(tx *sql.Tx) TaskStore
}
