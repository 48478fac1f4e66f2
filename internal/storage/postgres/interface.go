// internal/storage/postgres/interface.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound возвращается, когда строка отсутствует.
var ErrNotFound = errors.New("postgres: not found")

// ErrAlreadyExists возвращается при нарушении уникальности.
var ErrAlreadyExists = errors.New("postgres: already exists")

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// TaskStatus — статус задачи. Значения совпадают с wire-форматом API.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "InProgress"
	StatusDone       TaskStatus = "Done"
)

// ParseTaskStatus валидирует сырое значение статуса.
func ParseTaskStatus(raw string) (TaskStatus, error) {
	switch s := TaskStatus(raw); s {
	case StatusTodo, StatusInProgress, StatusDone:
		return s, nil
	default:
		return "", fmt.Errorf("unknown task status %q", raw)
	}
}

type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	UserID      string
	CreatedAt   time.Time
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, status *TaskStatus) ([]*Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id string) error
}
