package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"idcard/internal/platform/metrics"
	"idcard/pkg/platform/middleware/metadata"
	"idcard/pkg/platform/middleware/requestid"
	"idcard/pkg/platform/middleware/requesttime"
)

// Registrar mounts a module's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects what NewRouter needs.
type RouterConfig struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Health   *Health
	Modules  []Registrar
	// Now overrides the request clock; nil means time.Now.
	Now func() time.Time
}

// NewRouter wires the public endpoints behind the shared middleware chain.
// The transport layer delegates to module handlers and holds no business
// logic.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	if cfg.Now != nil {
		r.Use(requesttime.MiddlewareWithClock(cfg.Now))
	} else {
		r.Use(requesttime.Middleware)
	}
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	if cfg.Health != nil {
		r.Get("/healthz", cfg.Health.ServeHTTP)
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	for _, m := range cfg.Modules {
		m.Register(r)
	}
	return r
}
