// internal/usecase/register.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/internal/auth"
	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	"github.com/H0guera/task-tracker/pkg/logger"
)

var tracer = otel.Tracer("usecase")

type registerHandler struct {
	users postgres.UserRepository
	log   *logger.Logger
}

func NewRegisterHandler(users postgres.UserRepository, log *logger.Logger) RegisterHandler {
	return &registerHandler{users: users, log: log.Named("register")}
}

// Handle создаёт пользователя. Уникальность username обеспечивает БД:
// гонка двух одинаковых регистраций решается constraint'ом, не SELECT'ом.
func (h *registerHandler) Handle(ctx context.Context, username, password string) (*postgres.User, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.RegisterTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: empty username or password", ErrInvalidCredentials)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		metrics.RegisterTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &postgres.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, postgres.ErrAlreadyExists) {
			metrics.RegisterTotal.WithLabelValues("conflict").Inc()
			return nil, fmt.Errorf("%w: %s", ErrUserAlreadyExists, username)
		}
		metrics.RegisterTotal.WithLabelValues("fail").Inc()
		h.log.WithContext(ctx).Error("create user failed", zap.Error(err))
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegisterTotal.WithLabelValues("ok").Inc()
	h.log.WithContext(ctx).Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}
