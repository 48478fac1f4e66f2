// internal/usecase/login.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/internal/auth"
	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	redisstore "github.com/H0guera/task-tracker/internal/storage/redis"
	"github.com/H0guera/task-tracker/pkg/logger"
)

// compareTimeout ограничивает время на bcrypt-сравнение.
const compareTimeout = 200 * time.Millisecond

type loginHandler struct {
	users  postgres.UserRepository
	tokens redisstore.RefreshTokenStore
	signer jwt.Signer
	log    *logger.Logger
}

func NewLoginHandler(
	users postgres.UserRepository,
	tokens redisstore.RefreshTokenStore,
	signer jwt.Signer,
	log *logger.Logger,
) LoginHandler {
	return &loginHandler{users: users, tokens: tokens, signer: signer, log: log.Named("login")}
}

// Handle проверяет учётные данные и выпускает пару токенов.
// Refresh-токен регистрируется в хранилище: без записи он не будет принят.
func (h *loginHandler) Handle(ctx context.Context, username, password string) (*TokenPair, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := h.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			// Выравниваем время ответа: путь "нет пользователя" не должен
			// быть заметно быстрее пути "неверный пароль".
			auth.MitigateTimingAttack(password)
			metrics.LoginTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginTotal.WithLabelValues("fail").Inc()
		h.log.WithContext(ctx).Error("find user failed", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}

	matchCh := make(chan bool, 1)
	go func() {
		matchCh <- auth.VerifyPassword(password, user.PasswordHash)
	}()

	var match bool
	select {
	case match = <-matchCh:
	case <-time.After(compareTimeout):
		metrics.LoginTotal.WithLabelValues("fail").Inc()
		h.log.WithContext(ctx).Error("password compare timed out", zap.String("user_id", user.ID))
		return nil, fmt.Errorf("login: password compare timeout")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if !match {
		metrics.LoginTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	access, err := h.signer.Access(user.ID, user.Username)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}
	refresh, err := h.signer.Refresh(user.ID)
	if err != nil {
		metrics.LoginTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := h.tokens.Save(ctx, user.ID, refresh); err != nil {
		metrics.LoginTotal.WithLabelValues("fail").Inc()
		return nil, fmt.Errorf("login: save refresh token: %w", err)
	}

	metrics.LoginTotal.WithLabelValues("ok").Inc()
	metrics.IssuedTokens.WithLabelValues(string(jwt.AccessToken)).Inc()
	metrics.IssuedTokens.WithLabelValues(string(jwt.RefreshToken)).Inc()
	h.log.WithContext(ctx).Info("user logged in", zap.String("user_id", user.ID))

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
