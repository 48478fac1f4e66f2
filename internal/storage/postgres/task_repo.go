// internal/storage/postgres/task_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

var taskTracer = otel.Tracer("storage/postgres/tasks")

type taskRepo struct {
	db *pgxpool.Pool
}

// NewTaskRepo создаёт TaskRepository поверх пула.
func NewTaskRepo(db *pgxpool.Pool) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) Create(ctx context.Context, task *Task) error {
	ctx, span := taskTracer.Start(ctx, "CreateTask")
	defer span.End()

	const query = `INSERT INTO tasks (id, title, description, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		task.ID, task.Title, task.Description, task.Status, task.UserID, task.CreatedAt)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *taskRepo) FindByID(ctx context.Context, id string) (*Task, error) {
	ctx, span := taskTracer.Start(ctx, "FindTaskByID")
	defer span.End()

	const query = `SELECT id, title, description, status, user_id, created_at
		FROM tasks WHERE id = $1`

	var t Task
	err := r.db.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

func (r *taskRepo) List(ctx context.Context, status *TaskStatus) ([]*Task, error) {
	ctx, span := taskTracer.Start(ctx, "ListTasks")
	defer span.End()

	const base = `SELECT id, title, description, status, user_id, created_at
		FROM tasks`

	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.Query(ctx, base+` WHERE status = $1 ORDER BY created_at`, *status)
	} else {
		rows, err = r.db.Query(ctx, base+` ORDER BY created_at`)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepo) Update(ctx context.Context, task *Task) error {
	ctx, span := taskTracer.Start(ctx, "UpdateTask")
	defer span.End()

	const query = `UPDATE tasks SET title = $2, description = $3, status = $4
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, task.ID, task.Title, task.Description, task.Status)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	ctx, span := taskTracer.Start(ctx, "DeleteTask")
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
