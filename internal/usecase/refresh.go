// internal/usecase/refresh.go
package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/pkg/logger"
)

type refreshHandler struct {
	resolve ResolveHandler
	signer  jwt.Signer
	log     *logger.Logger
}

func NewRefreshHandler(resolve ResolveHandler, signer jwt.Signer, log *logger.Logger) RefreshHandler {
	return &refreshHandler{resolve: resolve, signer: signer, log: log.Named("refresh")}
}

// Handle обменивает действующий refresh-токен на новый access-токен.
// Сам refresh-токен не ротируется и остаётся действителен до конца TTL.
func (h *refreshHandler) Handle(ctx context.Context, token string) (string, error) {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	user, err := h.resolve.Handle(ctx, token, jwt.RefreshToken)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("invalid").Inc()
		return "", err
	}

	access, err := h.signer.Access(user.ID, user.Username)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("fail").Inc()
		return "", fmt.Errorf("refresh: %w", err)
	}

	metrics.RefreshTotal.WithLabelValues("ok").Inc()
	metrics.IssuedTokens.WithLabelValues(string(jwt.AccessToken)).Inc()
	h.log.WithContext(ctx).Debug("access token refreshed", zap.String("user_id", user.ID))
	return access, nil
}
