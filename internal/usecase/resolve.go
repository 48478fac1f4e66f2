// internal/usecase/resolve.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	redisstore "github.com/H0guera/task-tracker/internal/storage/redis"
	"github.com/H0guera/task-tracker/pkg/logger"
)

type resolveHandler struct {
	verifier jwt.Verifier
	users    postgres.UserRepository
	tokens   redisstore.RefreshTokenStore
	log      *logger.Logger
}

func NewResolveHandler(
	verifier jwt.Verifier,
	users postgres.UserRepository,
	tokens redisstore.RefreshTokenStore,
	log *logger.Logger,
) ResolveHandler {
	return &resolveHandler{verifier: verifier, users: users, tokens: tokens, log: log.Named("resolve")}
}

// Handle резолвит bearer-токен в пользователя.
// Проверки: подпись и exp, тип токена, существование subject'а,
// для refresh дополнительно запись в хранилище. Любой провал — ErrUnauthorized.
func (h *resolveHandler) Handle(ctx context.Context, token string, expected jwt.TokenType) (*postgres.User, error) {
	ctx, span := tracer.Start(ctx, "Resolve")
	defer span.End()

	claims, err := h.verifier.Parse(token)
	if err != nil {
		metrics.ResolveTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Type != expected {
		metrics.ResolveTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: wrong token type %q", ErrUnauthorized, claims.Type)
	}

	user, err := h.users.FindByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			metrics.ResolveTotal.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("%w: unknown subject", ErrUnauthorized)
		}
		metrics.ResolveTotal.WithLabelValues("fail").Inc()
		h.log.WithContext(ctx).Error("find user failed", zap.Error(err))
		return nil, fmt.Errorf("resolve: %w", err)
	}

	if expected == jwt.RefreshToken {
		found, err := h.tokens.Exists(ctx, user.ID, token)
		if err != nil {
			metrics.ResolveTotal.WithLabelValues("fail").Inc()
			return nil, fmt.Errorf("resolve: %w", err)
		}
		if !found {
			metrics.ResolveTotal.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("%w: refresh token not registered", ErrUnauthorized)
		}
	}

	metrics.ResolveTotal.WithLabelValues("ok").Inc()
	return user, nil
}
