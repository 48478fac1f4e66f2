// internal/metrics/metrics.go
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// Auth metrics
	RegisterTotal *prometheus.CounterVec
	LoginTotal    *prometheus.CounterVec
	RefreshTotal  *prometheus.CounterVec
	ResolveTotal  *prometheus.CounterVec
	IssuedTokens  *prometheus.CounterVec

	// Task metrics
	TaskOpsTotal *prometheus.CounterVec
)

// Register инициализирует и регистрирует все метрики.
// Если r == nil, используется prometheus.DefaultRegisterer.
// Дублирующая регистрация игнорируется.
func Register(r prometheus.Registerer) {
	once.Do(func() {
		if r == nil {
			r = prometheus.DefaultRegisterer
		}

		RegisterTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "auth", Name: "register_total",
			Help: "Total number of Register calls by result",
		}, []string{"result"})
		LoginTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "auth", Name: "login_total",
			Help: "Total number of Login calls by result",
		}, []string{"result"})
		RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "auth", Name: "refresh_total",
			Help: "Total number of Refresh calls by result",
		}, []string{"result"})
		ResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "auth", Name: "resolve_total",
			Help: "Total number of token resolutions by result",
		}, []string{"result"})
		IssuedTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "auth", Name: "issued_tokens_total",
			Help: "Total number of issued tokens by type",
		}, []string{"type"})

		TaskOpsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tasktracker", Subsystem: "tasks", Name: "operations_total",
			Help: "Total number of task operations by op and result",
		}, []string{"op", "result"})

		collectors := []prometheus.Collector{
			RegisterTotal, LoginTotal, RefreshTotal, ResolveTotal, IssuedTokens,
			TaskOpsTotal,
		}
		for _, c := range collectors {
			if err := r.Register(c); err != nil {
				if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
					panic(err)
				}
			}
		}
	})
}
