// ABOUTME: Task store methods for SQLiteStore
// ABOUTME: Owner-scoped CRUD with completion filter, sorting, and pagination

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// CreateTask creates a new task for its owner
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	query := `
		INSERT INTO tasks (id, owner_id, description, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.Completed,
		task.CreatedAt.UTC().Format(time.RFC3339),
		task.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by ID, scoped to its owner.
// A task owned by a different account returns ErrNotFound, same as a missing one.
func (s *SQLiteStore) GetTask(ctx context.Context, ownerID, id string) (*Task, error) {
	query := `
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = ? AND owner_id = ?
	`

	return scanTask(s.db.QueryRowContext(ctx, query, id, ownerID))
}

func scanTask(row *sql.Row) (*Task, error) {
	var task Task
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Description,
		&task.Completed,
		&createdAtStr,
		&updatedAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	task.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
	task.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)

	return &task, nil
}

// sortColumns maps exported sort field names to their columns.
// Only values present here ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	TaskSortCreatedAt:   "created_at",
	TaskSortCompleted:   "completed",
	TaskSortDescription: "description",
}

// ListTasks returns the owner's tasks narrowed by filter.
// Unknown sort fields fall back to insertion order.
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]*Task, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, owner_id, description, completed, created_at, updated_at
		FROM tasks
		WHERE owner_id = ?
	`)
	args := []any{ownerID}

	if filter.Completed != nil {
		sb.WriteString(" AND completed = ?")
		args = append(args, *filter.Completed)
	}

	if col, ok := sortColumns[filter.SortBy]; ok {
		sb.WriteString(" ORDER BY " + col)
		if filter.SortDesc {
			sb.WriteString(" DESC")
		}
		sb.WriteString(", id")
	} else {
		sb.WriteString(" ORDER BY created_at, id")
	}

	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	} else {
		sb.WriteString(" LIMIT -1")
	}
	if filter.Skip > 0 {
		sb.WriteString(" OFFSET ?")
		args = append(args, filter.Skip)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		var task Task
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(
			&task.ID,
			&task.OwnerID,
			&task.Description,
			&task.Completed,
			&createdAtStr,
			&updatedAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		task.CreatedAt, _ = time.Parse(time.RFC3339, createdAtStr)
		task.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAtStr)
		tasks = append(tasks, &task)
	}

	return tasks, rows.Err()
}

// UpdateTask persists description and completed for the task, scoped to its
// owner. Returns ErrNotFound if the task doesn't exist or belongs to someone
// else.
func (s *SQLiteStore) UpdateTask(ctx context.Context, task *Task) error {
	query := `
		UPDATE tasks
		SET description = ?, completed = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Description,
		task.Completed,
		time.Now().UTC().Format(time.RFC3339),
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteTask removes the owner's task and returns it.
// Returns ErrNotFound if the task doesn't exist or belongs to someone else.
func (s *SQLiteStore) DeleteTask(ctx context.Context, ownerID, id string) (*Task, error) {
	task, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM tasks WHERE id = ? AND owner_id = ?`
	if _, err := s.db.ExecContext(ctx, query, id, ownerID); err != nil {
		return nil, fmt.Errorf("deleting task: %w", err)
	}

	return task, nil
}

// CountTasks returns the number of tasks the owner has
func (s *SQLiteStore) CountTasks(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE owner_id = ?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}
