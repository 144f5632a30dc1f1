package domain

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	t.Parallel()
	// Test valid task creation with explicit values
	due := time.Now().UTC().Add(24 * time.Hour)
	task, err := NewTask("Write proposal", "draft the outline", TaskStatusInProgress, TaskPriorityHigh, "alice", &due)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "Write proposal" {
		t.Errorf("Expected title %q, got %q", "Write proposal", task.Title)
	}

	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %s, got %s", TaskStatusInProgress, task.Status)
	}

	if task.Priority != TaskPriorityHigh {
		t.Errorf("Expected priority %s, got %s", TaskPriorityHigh, task.Priority)
	}

	if task.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Error("Expected CreatedAt to equal UpdatedAt on creation")
	}

	// Test defaults when status and priority are omitted
	task, err = NewTask("Buy milk", "", "", "", "", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Status != TaskStatusPending {
		t.Errorf("Expected default status %s, got %s", TaskStatusPending, task.Status)
	}

	if task.Priority != TaskPriorityMedium {
		t.Errorf("Expected default priority %s, got %s", TaskPriorityMedium, task.Priority)
	}

	// Test missing title
	_, err = NewTask("", "", "", "", "", nil)
	if err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	// Test invalid status
	_, err = NewTask("Buy milk", "", "DONE", "", "", nil)
	if err != ErrTaskStatusInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskStatusInvalid, err)
	}

	// Test invalid priority
	_, err = NewTask("Buy milk", "", "", "URGENT", "", nil)
	if err != ErrTaskPriorityInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskPriorityInvalid, err)
	}
}

func TestTaskValidate(t *testing.T) {
	t.Parallel()
	validTask := Task{
		Title:    "Test task",
		Status:   TaskStatusPending,
		Priority: TaskPriorityMedium,
	}

	// Test valid task
	if err := validTask.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Test empty title
	invalidTask := validTask
	invalidTask.Title = ""
	if err := invalidTask.Validate(); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}

	// Test invalid status
	invalidTask = validTask
	invalidTask.Status = "invalid_status"
	if err := invalidTask.Validate(); err != ErrTaskStatusInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskStatusInvalid, err)
	}

	// Test invalid priority
	invalidTask = validTask
	invalidTask.Priority = "invalid_priority"
	if err := invalidTask.Validate(); err != ErrTaskPriorityInvalid {
		t.Errorf("Expected error %v, got %v", ErrTaskPriorityInvalid, err)
	}
}

func TestApplyUpdate(t *testing.T) {
	t.Parallel()
	created := time.Now().UTC().Add(-time.Hour)
	task := Task{
		ID:        1,
		Title:     "Old title",
		Status:    TaskStatusPending,
		Priority:  TaskPriorityMedium,
		CreatedAt: created,
		UpdatedAt: created,
	}

	due := time.Now().UTC().Add(48 * time.Hour)
	err := task.ApplyUpdate("New title", "new description", TaskStatusInProgress, TaskPriorityHigh, "bob", &due)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if task.Title != "New title" {
		t.Errorf("Expected title %q, got %q", "New title", task.Title)
	}

	if task.Status != TaskStatusInProgress {
		t.Errorf("Expected status %s, got %s", TaskStatusInProgress, task.Status)
	}

	if task.AssignedTo != "bob" {
		t.Errorf("Expected assignee %q, got %q", "bob", task.AssignedTo)
	}

	if !task.CreatedAt.Equal(created) {
		t.Error("Expected CreatedAt to be unchanged by update")
	}

	if !task.UpdatedAt.After(created) {
		t.Error("Expected UpdatedAt to be refreshed by update")
	}

	// Invalid update leaves the task unchanged
	before := task
	if err := task.ApplyUpdate("", "x", TaskStatusPending, TaskPriorityLow, "", nil); err != ErrTaskTitleEmpty {
		t.Errorf("Expected error %v, got %v", ErrTaskTitleEmpty, err)
	}
	if task != before {
		t.Error("Expected task to be unchanged after failed update")
	}
}

func TestMarkCompleted(t *testing.T) {
	t.Parallel()
	created := time.Now().UTC().Add(-time.Hour)
	due := created.Add(30 * time.Minute)
	task := Task{
		ID:         7,
		Title:      "Write proposal",
		Status:     TaskStatusPending,
		Priority:   TaskPriorityMedium,
		AssignedTo: "alice",
		DueDate:    &due,
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	task.MarkCompleted()

	if task.Status != TaskStatusCompleted {
		t.Errorf("Expected status %s, got %s", TaskStatusCompleted, task.Status)
	}

	if !task.UpdatedAt.After(created) {
		t.Error("Expected UpdatedAt to be refreshed")
	}

	// All other fields are untouched
	if task.Title != "Write proposal" || task.AssignedTo != "alice" || task.DueDate != &due {
		t.Error("Expected non-status fields to be unchanged")
	}

	if !task.CreatedAt.Equal(created) {
		t.Error("Expected CreatedAt to be unchanged")
	}
}

func TestIsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  TaskStatus
		want    bool
	}{
		{"past due and pending", &past, TaskStatusPending, true},
		{"past due and in progress", &past, TaskStatusInProgress, true},
		{"past due but completed", &past, TaskStatusCompleted, false},
		{"future due date", &future, TaskStatusPending, false},
		{"no due date", nil, TaskStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{
				Title:    "t",
				Status:   tt.status,
				Priority: TaskPriorityMedium,
				DueDate:  tt.dueDate,
			}
			if got := task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTaskStatus(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"PENDING", "IN_PROGRESS", "COMPLETED"} {
		status, err := ParseTaskStatus(valid)
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", valid, err)
		}
		if string(status) != valid {
			t.Errorf("Expected status %q, got %q", valid, status)
		}
	}

	for _, invalid := range []string{"pending", "DONE", ""} {
		if _, err := ParseTaskStatus(invalid); err != ErrTaskStatusInvalid {
			t.Errorf("Expected error %v for %q, got %v", ErrTaskStatusInvalid, invalid, err)
		}
	}
}

func TestParseTaskPriority(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"LOW", "MEDIUM", "HIGH"} {
		priority, err := ParseTaskPriority(valid)
		if err != nil {
			t.Errorf("Expected no error for %q, got %v", valid, err)
		}
		if string(priority) != valid {
			t.Errorf("Expected priority %q, got %q", valid, priority)
		}
	}

	for _, invalid := range []string{"medium", "URGENT", ""} {
		if _, err := ParseTaskPriority(invalid); err != ErrTaskPriorityInvalid {
			t.Errorf("Expected error %v for %q, got %v", ErrTaskPriorityInvalid, invalid, err)
		}
	}
}
