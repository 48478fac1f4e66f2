// internal/usecase/handler.go
package usecase

import (
	"context"

	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
)

// TokenPair — результат успешного логина.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterHandler interface {
	Handle(ctx context.Context, username, password string) (*postgres.User, error)
}

type LoginHandler interface {
	Handle(ctx context.Context, username, password string) (*TokenPair, error)
}

type RefreshHandler interface {
	Handle(ctx context.Context, token string) (string, error)
}

// ResolveHandler превращает bearer-токен в пользователя.
// Любой сбой на пути токен → пользователь сворачивается в ErrUnauthorized.
type ResolveHandler interface {
	Handle(ctx context.Context, token string, expected jwt.TokenType) (*postgres.User, error)
}

// TaskInput — полный набор полей задачи (create, PUT).
type TaskInput struct {
	Title       string
	Description string
	Status      postgres.TaskStatus
}

// TaskPatch — частичное обновление (PATCH); nil-поле не трогается.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *postgres.TaskStatus
}

type TaskHandler interface {
	Create(ctx context.Context, user *postgres.User, in TaskInput) (*postgres.Task, error)
	List(ctx context.Context, status *postgres.TaskStatus) ([]*postgres.Task, error)
	Get(ctx context.Context, user *postgres.User, taskID string) (*postgres.Task, error)
	Update(ctx context.Context, user *postgres.User, taskID string, in TaskInput) (*postgres.Task, error)
	UpdatePartial(ctx context.Context, user *postgres.User, taskID string, in TaskPatch) (*postgres.Task, error)
	Delete(ctx context.Context, user *postgres.User, taskID string) error
}

type Handler struct {
	Register RegisterHandler
	Login    LoginHandler
	Refresh  RefreshHandler
	Resolve  ResolveHandler
	Tasks    TaskHandler
}

func NewHandler(
	register RegisterHandler,
	login LoginHandler,
	refresh RefreshHandler,
	resolve ResolveHandler,
	tasks TaskHandler,
) Handler {
	return Handler{
		Register: register,
		Login:    login,
		Refresh:  refresh,
		Resolve:  resolve,
		Tasks:    tasks,
	}
}
