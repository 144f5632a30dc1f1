package service_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// mockTaskStore is a configurable function-field mock of store.TaskStore.
// Unset fields panic, which makes unexpected calls obvious in tests.
type mockTaskStore struct {
	createFn                 func(ctx context.Context, task *domain.Task) error
	updateFn                 func(ctx context.Context, task *domain.Task) error
	getByIDFn                func(ctx context.Context, id int64) (*domain.Task, error)
	existsByIDFn             func(ctx context.Context, id int64) (bool, error)
	deleteFn                 func(ctx context.Context, id int64) error
	listFn                   func(ctx context.Context, page store.ListPage) (*store.TaskPage, error)
	findByStatusFn           func(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error)
	findByPriorityFn         func(ctx context.Context, priority domain.TaskPriority) ([]*domain.Task, error)
	findByAssignedToFn       func(ctx context.Context, assignedTo string) ([]*domain.Task, error)
	findByAssignedToStatusFn func(ctx context.Context, assignedTo string, status domain.TaskStatus) ([]*domain.Task, error)
	findByTitleFn            func(ctx context.Context, fragment string) ([]*domain.Task, error)
	findByDueDateBeforeFn    func(ctx context.Context, t time.Time) ([]*domain.Task, error)
	findOverdueFn            func(ctx context.Context, now time.Time, excludedStatus domain.TaskStatus) ([]*domain.Task, error)
	countFn                  func(ctx context.Context) (int64, error)
	countByStatusFn          func(ctx context.Context, status domain.TaskStatus) (int64, error)
	findHighPriorityFn       func(ctx context.Context, priority domain.TaskPriority, excludedStatus domain.TaskStatus) ([]*domain.Task, error)
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return m.createFn(ctx, task)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	return m.updateFn(ctx, task)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTaskStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return m.existsByIDFn(ctx, id)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockTaskStore) List(ctx context.Context, page store.ListPage) (*store.TaskPage, error) {
	return m.listFn(ctx, page)
}

func (m *mockTaskStore) FindByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	return m.findByStatusFn(ctx, status)
}

func (m *mockTaskStore) FindByPriority(
	ctx context.Context,
	priority domain.TaskPriority,
) ([]*domain.Task, error) {
	return m.findByPriorityFn(ctx, priority)
}

func (m *mockTaskStore) FindByAssignedTo(
	ctx context.Context,
	assignedTo string,
) ([]*domain.Task, error) {
	return m.findByAssignedToFn(ctx, assignedTo)
}

func (m *mockTaskStore) FindByAssignedToAndStatus(
	ctx context.Context,
	assignedTo string,
	status domain.TaskStatus,
) ([]*domain.Task, error) {
	return m.findByAssignedToStatusFn(ctx, assignedTo, status)
}

func (m *mockTaskStore) FindByTitleContainingIgnoreCase(
	ctx context.Context,
	fragment string,
) ([]*domain.Task, error) {
	return m.findByTitleFn(ctx, fragment)
}

func (m *mockTaskStore) FindByDueDateBefore(
	ctx context.Context,
	t time.Time,
) ([]*domain.Task, error) {
	return m.findByDueDateBeforeFn(ctx, t)
}

func (m *mockTaskStore) FindOverdueTasks(
	ctx context.Context,
	now time.Time,
	excludedStatus domain.TaskStatus,
) ([]*domain.Task, error) {
	return m.findOverdueFn(ctx, now, excludedStatus)
}

func (m *mockTaskStore) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockTaskStore) CountByStatus(
	ctx context.Context,
	status domain.TaskStatus,
) (int64, error) {
	return m.countByStatusFn(ctx, status)
}

func (m *mockTaskStore) FindHighPriorityIncomplete(
	ctx context.Context,
	priority domain.TaskPriority,
	excludedStatus domain.TaskStatus,
) ([]*domain.Task, error) {
	return m.findHighPriorityFn(ctx, priority, excludedStatus)
}

// WithTx returns the mock itself; transaction tests pair it with sqlmock
// expectations on the surrounding *sql.DB.
func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
