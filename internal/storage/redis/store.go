// internal/storage/redis/store.go
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/H0guera/task-tracker/pkg/backoff"
	"github.com/H0guera/task-tracker/pkg/logger"
)

var (
	redisMetrics = struct {
		SetErrors        prometheus.Counter
		ExistsErrors     prometheus.Counter
		OperationLatency prometheus.Histogram
	}{
		SetErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "redis", Name: "set_errors_total",
			Help: "Total number of errors on refresh token SET",
		}),
		ExistsErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "redis", Name: "exists_errors_total",
			Help: "Total number of errors on refresh token EXISTS",
		}),
		OperationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tasktracker", Subsystem: "redis", Name: "operation_latency_seconds",
			Help:    "Latency of Redis operations",
			Buckets: prometheus.DefBuckets,
		}),
	}
	tracer = otel.Tracer("storage/redis")
)

// Config хранит параметры подключения к Redis.
type Config struct {
	Addr     string         `mapstructure:"addr"`
	Password string         `mapstructure:"password"`
	DB       int            `mapstructure:"db"`
	Backoff  backoff.Config `mapstructure:"backoff"`
}

// ApplyDefaults задаёт sane defaults.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "redis:6379"
	}
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("redis: addr required")
	}
	return nil
}

// refreshTokenStore — продакшен-реализация поверх go-redis/v9.
type refreshTokenStore struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	log        *logger.Logger
	backoffCfg backoff.Config
}

// New создаёт RefreshTokenStore, соединяется с Redis, с retry и метриками.
// prefix — префикс ключей, ttl — срок жизни записи (refresh-токена).
func New(ctx context.Context, cfg Config, prefix string, ttl time.Duration, log *logger.Logger) (RefreshTokenStore, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if prefix == "" {
		return nil, fmt.Errorf("redis: key prefix required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("redis: refresh token ttl must be positive")
	}
	log = log.Named("redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Проверяем соединение с retry
	op := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	ctxConn, span := tracer.Start(ctx, "Connect", trace.WithAttributes(attribute.String("addr", cfg.Addr)))
	if err := backoff.Execute(ctxConn, cfg.Backoff, log, op); err != nil {
		span.RecordError(err)
		span.End()
		return nil, fmt.Errorf("redis connect: %w", err)
	}
	span.End()
	log.Info("redis: connected", zap.String("addr", cfg.Addr))

	return &refreshTokenStore{
		client:     client,
		prefix:     prefix,
		ttl:        ttl,
		log:        log,
		backoffCfg: cfg.Backoff,
	}, nil
}

// NewWithClient оборачивает готовый клиент. Используется в тестах (miniredis).
func NewWithClient(client *redis.Client, prefix string, ttl time.Duration, log *logger.Logger) RefreshTokenStore {
	return &refreshTokenStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		log:    log.Named("redis"),
	}
}

// key собирает ключ вида {prefix}:user_{userID}:{token}.
func (s *refreshTokenStore) key(userID, token string) string {
	return fmt.Sprintf("%s:user_%s:%s", s.prefix, userID, token)
}

func (s *refreshTokenStore) Save(ctx context.Context, userID, token string) error {
	key := s.key(userID, token)
	ctxOp, span := tracer.Start(ctx, "Save", trace.WithAttributes(attribute.String("user_id", userID)))
	defer span.End()

	start := time.Now()
	op := func(ctx context.Context) error {
		return s.client.Set(ctx, key, "1", s.ttl).Err()
	}
	if err := backoff.Execute(ctxOp, s.backoffCfg, s.log, op); err != nil {
		redisMetrics.SetErrors.Inc()
		s.log.WithContext(ctx).Error("redis SET failed", zap.String("user_id", userID), zap.Error(err))
		span.RecordError(err)
		return err
	}
	redisMetrics.OperationLatency.Observe(time.Since(start).Seconds())
	return nil
}

func (s *refreshTokenStore) Exists(ctx context.Context, userID, token string) (bool, error) {
	key := s.key(userID, token)
	ctxOp, span := tracer.Start(ctx, "Exists", trace.WithAttributes(attribute.String("user_id", userID)))
	defer span.End()

	start := time.Now()
	var found bool
	op := func(ctx context.Context) error {
		n, err := s.client.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		found = n > 0
		return nil
	}
	if err := backoff.Execute(ctxOp, s.backoffCfg, s.log, op); err != nil {
		redisMetrics.ExistsErrors.Inc()
		s.log.WithContext(ctx).Error("redis EXISTS failed", zap.String("user_id", userID), zap.Error(err))
		span.RecordError(err)
		return false, err
	}
	redisMetrics.OperationLatency.Observe(time.Since(start).Seconds())
	return found, nil
}

func (s *refreshTokenStore) Close() error {
	return s.client.Close()
}
