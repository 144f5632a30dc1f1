package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// TaskPriority represents the urgency level of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Common validation errors for Task
var (
	ErrTaskTitleEmpty      = errors.New("task title cannot be empty")
	ErrTaskStatusInvalid   = errors.New("invalid task status")
	ErrTaskPriorityInvalid = errors.New("invalid task priority")
)

// Task represents a unit of work tracked by the service. Status and
// priority are always one of the enumerated values after creation;
// UpdatedAt never precedes CreatedAt.
type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  string       `json:"assignedTo"`
	DueDate     *time.Time   `json:"dueDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTask creates a new Task with the given title and optional attributes.
// Status defaults to PENDING and priority to MEDIUM when empty, and both
// timestamps are set to the same instant. The ID is assigned by the store
// on insert. Returns an error if validation fails.
func NewTask(
	title, description string,
	status TaskStatus,
	priority TaskPriority,
	assignedTo string,
	dueDate *time.Time,
) (*Task, error) {
	if status == "" {
		status = TaskStatusPending
	}
	if priority == "" {
		priority = TaskPriorityMedium
	}

	now := time.Now().UTC()
	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  assignedTo,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if !isValidTaskStatus(t.Status) {
		return ErrTaskStatusInvalid
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrTaskPriorityInvalid
	}

	return nil
}

// ApplyUpdate overwrites every mutable field from the given values and
// refreshes the UpdatedAt timestamp. Partial updates are not supported;
// callers supply the full replacement field set.
// Returns an error if the resulting task would be invalid, in which case
// the task is left unchanged.
func (t *Task) ApplyUpdate(
	title, description string,
	status TaskStatus,
	priority TaskPriority,
	assignedTo string,
	dueDate *time.Time,
) error {
	if title == "" {
		return ErrTaskTitleEmpty
	}
	if !isValidTaskStatus(status) {
		return ErrTaskStatusInvalid
	}
	if !isValidTaskPriority(priority) {
		return ErrTaskPriorityInvalid
	}

	t.Title = title
	t.Description = description
	t.Status = status
	t.Priority = priority
	t.AssignedTo = assignedTo
	t.DueDate = dueDate
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkCompleted sets the status to COMPLETED and refreshes the UpdatedAt
// timestamp, leaving all other fields untouched.
func (t *Task) MarkCompleted() {
	t.Status = TaskStatusCompleted
	t.UpdatedAt = time.Now().UTC()
}

// IsOverdue reports whether the task's due date has passed as of the given
// instant and the task has not been completed. Tasks without a due date
// are never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}

// ParseTaskStatus converts a string to a TaskStatus.
// Returns an error if the value is not one of the enumerated statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !isValidTaskStatus(status) {
		return "", ErrTaskStatusInvalid
	}
	return status, nil
}

// ParseTaskPriority converts a string to a TaskPriority.
// Returns an error if the value is not one of the enumerated priorities.
func ParseTaskPriority(s string) (TaskPriority, error) {
	priority := TaskPriority(s)
	if !isValidTaskPriority(priority) {
		return "", ErrTaskPriorityInvalid
	}
	return priority, nil
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// isValidTaskPriority checks if the given priority is a valid TaskPriority.
func isValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
