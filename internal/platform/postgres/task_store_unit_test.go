package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/store"
)

func TestSortColumn(t *testing.T) {
	tests := []struct {
		name           string
		sortBy         string
		expectedColumn string
		expectError    bool
	}{
		{
			name:           "id",
			sortBy:         "id",
			expectedColumn: "id",
		},
		{
			name:           "camel_case_field_maps_to_snake_case_column",
			sortBy:         "dueDate",
			expectedColumn: "due_date",
		},
		{
			name:           "assigned_to",
			sortBy:         "assignedTo",
			expectedColumn: "assigned_to",
		},
		{
			name:           "created_at",
			sortBy:         "createdAt",
			expectedColumn: "created_at",
		},
		{
			name:        "unknown_field_rejected",
			sortBy:      "secret_column",
			expectError: true,
		},
		{
			name:        "sql_injection_attempt_rejected",
			sortBy:      "id; DROP TABLE tasks",
			expectError: true,
		},
		{
			name:        "empty_field_rejected",
			sortBy:      "",
			expectError: true,
		},
		{
			name:        "column_name_spelling_rejected",
			sortBy:      "due_date",
			expectError: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			column, err := SortColumn(tc.sortBy)

			if tc.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, store.ErrInvalidSortField),
					"expected ErrInvalidSortField, got: %v", err)
				assert.Empty(t, column)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedColumn, column)
		})
	}
}

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain_text_unchanged",
			input:    "weekly report",
			expected: "weekly report",
		},
		{
			name:     "percent_escaped",
			input:    "100% done",
			expected: `100\% done`,
		},
		{
			name:     "underscore_escaped",
			input:    "task_name",
			expected: `task\_name`,
		},
		{
			name:     "backslash_escaped",
			input:    `a\b`,
			expected: `a\\b`,
		},
		{
			name:     "empty_string",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, escapeLikePattern(tc.input))
		})
	}
}

func TestNullableTime(t *testing.T) {
	t.Run("nil_becomes_null", func(t *testing.T) {
		nt := nullableTime(nil)
		assert.False(t, nt.Valid)
	})

	t.Run("value_preserved", func(t *testing.T) {
		due := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		nt := nullableTime(&due)
		require.True(t, nt.Valid)
		assert.Equal(t, due, nt.Time)
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "check_violation",
			err: &pgconn.PgError{
				Code:           checkViolationCode,
				ConstraintName: "tasks_status_check",
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "title",
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name: "string_truncation",
			err: &pgconn.PgError{
				Code: stringDataRightTruncationCode,
			},
			expectedError: store.ErrInvalidEntity,
		},
		{
			name:          "unmapped_error_passes_through",
			err:           errors.New("connection refused"),
			expectedError: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)

			if tc.err == nil {
				assert.NoError(t, mapped)
				return
			}

			require.Error(t, mapped)
			if tc.expectedError != nil {
				assert.True(t, errors.Is(mapped, tc.expectedError),
					"expected %v to wrap %v", mapped, tc.expectedError)
			} else {
				assert.Equal(t, tc.err, mapped)
			}
		})
	}
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, IsCheckViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsCheckViolation(&pgconn.PgError{Code: notNullViolationCode}))
	assert.False(t, IsCheckViolation(errors.New("other")))
	assert.False(t, IsCheckViolation(nil))
}

func TestNewTaskStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewTaskStore(nil, nil)
	})
}
