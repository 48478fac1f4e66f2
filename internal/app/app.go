// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/H0guera/task-tracker/internal/config"
	"github.com/H0guera/task-tracker/internal/jwt"
	"github.com/H0guera/task-tracker/internal/metrics"
	"github.com/H0guera/task-tracker/internal/storage/postgres"
	redisstore "github.com/H0guera/task-tracker/internal/storage/redis"
	transporthttp "github.com/H0guera/task-tracker/internal/transport/http"
	"github.com/H0guera/task-tracker/internal/usecase"
	"github.com/H0guera/task-tracker/pkg/backoff"
	"github.com/H0guera/task-tracker/pkg/httpserver"
	"github.com/H0guera/task-tracker/pkg/logger"
	"github.com/H0guera/task-tracker/pkg/telemetry"
)

func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	backoff.SetServiceLabel(cfg.ServiceName)
	metrics.Register(nil)

	// === Telemetry ===
	cfg.Telemetry.ServiceName = cfg.ServiceName
	cfg.Telemetry.ServiceVersion = cfg.ServiceVersion
	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer shutdownSafe(ctx, "telemetry", shutdownTracer, log)

	// === PostgreSQL ===
	if err := postgres.ApplyMigrations(cfg.Postgres, log); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	db, err := postgres.Connect(cfg.Postgres, log)
	if err != nil {
		return fmt.Errorf("postgres connect: %w", err)
	}
	defer db.Close()

	// === Redis (refresh token store) ===
	tokenStore, err := redisstore.New(ctx, cfg.Redis, cfg.JWT.RefreshPrefix, cfg.JWT.RefreshTTL(), log)
	if err != nil {
		return fmt.Errorf("redis connect: %w", err)
	}
	defer func() {
		if err := tokenStore.Close(); err != nil {
			log.Error("redis close failed", zap.Error(err))
		}
	}()

	// === JWT Signer/Verifier ===
	jwtManager, err := jwt.New(jwt.Config{
		Secret:    cfg.JWT.Secret,
		Algorithm: cfg.JWT.Algorithm,
		AccessTTL: cfg.JWT.AccessTTL(),
	})
	if err != nil {
		return fmt.Errorf("jwt manager: %w", err)
	}

	// === Repositories ===
	userRepo := postgres.NewUserRepo(db)
	taskRepo := postgres.NewTaskRepo(db)

	// === Usecases ===
	resolve := usecase.NewResolveHandler(jwtManager, userRepo, tokenStore, log)
	uc := usecase.NewHandler(
		usecase.NewRegisterHandler(userRepo, log),
		usecase.NewLoginHandler(userRepo, tokenStore, jwtManager, log),
		usecase.NewRefreshHandler(resolve, jwtManager, log),
		resolve,
		usecase.NewTaskHandler(taskRepo, log),
	)

	// === HTTP transport ===
	apiHandler := transporthttp.NewHandler(uc, log)
	apiRoutes := transporthttp.Routes(apiHandler, transporthttp.NewMiddleware(resolve))

	readiness := func() error {
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return db.Ping(ctxPing)
	}
	httpSrv, err := httpserver.New(cfg.HTTP, readiness, log,
		map[string]http.Handler{"/": apiRoutes},
		httpserver.RecoverMiddleware,
		httpserver.CORSMiddleware(),
		httpserver.RequestIDMiddleware,
	)
	if err != nil {
		return fmt.Errorf("httpserver init: %w", err)
	}

	log.WithContext(ctx).Info("task-tracker: starting")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpSrv.Run(ctx) })

	if err := g.Wait(); err != nil {
		if ctx.Err() == context.Canceled {
			log.WithContext(ctx).Info("task-tracker shut down cleanly")
			return nil
		}
		log.WithContext(ctx).Error("task-tracker exited with error", zap.Error(err))
		return err
	}

	log.WithContext(ctx).Info("task-tracker shut down complete")
	return nil
}

func shutdownSafe(ctx context.Context, name string, fn func(context.Context) error, log *logger.Logger) {
	log.WithContext(ctx).Info(name + ": shutting down")
	if err := fn(ctx); err != nil {
		log.WithContext(ctx).Error(name+" shutdown failed", zap.Error(err))
	} else {
		log.WithContext(ctx).Info(name + ": shutdown complete")
	}
}
