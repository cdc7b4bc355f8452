package store

import (
	"context"
	"errors"
	"log/slog"

	"idcard/pkg/platform/circuit"
	"idcard/pkg/platform/sentinel"
)

// FallbackSource serves lookups from primary and switches to fallback while
// primary keeps failing. Unknown codes count as primary successes.
type FallbackSource struct {
	primary  Source
	fallback Source
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

// NewFallbackSource guards primary with breaker.
func NewFallbackSource(primary, fallback Source, breaker *circuit.Breaker, logger *slog.Logger) *FallbackSource {
	return &FallbackSource{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		logger:   logger,
	}
}

func (f *FallbackSource) Lookup(ctx context.Context, code string) (string, error) {
	name, err := f.primary.Lookup(ctx, code)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		if _, change := f.breaker.RecordSuccess(); change.Closed {
			f.logger.InfoContext(ctx, "region store recovered", "breaker", f.breaker.Name())
		}
		return name, err
	}
	if ctx.Err() != nil {
		return "", err
	}

	useFallback, change := f.breaker.RecordFailure()
	if change.Opened {
		f.logger.WarnContext(ctx, "region store failing; serving from fallback",
			"breaker", f.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return "", errors.Join(sentinel.ErrUnavailable, err)
	}
	return f.fallback.Lookup(ctx, code)
}
