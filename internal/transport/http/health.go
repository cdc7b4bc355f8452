package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"idcard/pkg/platform/httputil"
)

// Checker reports whether a backend is reachable.
type Checker interface {
	Health(ctx context.Context) error
}

// Health serves GET /healthz by probing every registered backend.
type Health struct {
	checks  map[string]Checker
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealth builds a health endpoint. Nil checkers are skipped so optional
// backends can be passed unconditionally.
func NewHealth(logger *slog.Logger, checks map[string]Checker) *Health {
	h := &Health{checks: make(map[string]Checker, len(checks)), timeout: 2 * time.Second, logger: logger}
	for name, c := range checks {
		if c != nil {
			h.checks[name] = c
		}
	}
	return h
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]error, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			results[i] = h.checks[name].Health(ctx)
			return nil
		})
	}
	_ = g.Wait()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK
	for i, name := range names {
		if err := results[i]; err != nil {
			h.logger.WarnContext(ctx, "health check failed", "backend", name, "error", err)
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
