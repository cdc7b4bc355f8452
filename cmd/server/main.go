package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"idcard/internal/idnumber/handler"
	idmetrics "idcard/internal/idnumber/metrics"
	"idcard/internal/idnumber/service"
	"idcard/internal/platform/config"
	"idcard/internal/platform/httpserver"
	"idcard/internal/platform/logger"
	"idcard/internal/platform/metrics"
	"idcard/internal/platform/postgres"
	"idcard/internal/platform/redis"
	regionmetrics "idcard/internal/region/metrics"
	"idcard/internal/region/store"
	httptransport "idcard/internal/transport/http"
	"idcard/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	regionMetrics := regionmetrics.New()

	db, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	overrides := map[string]string{}
	if cfg.RegionsFile != "" {
		if overrides, err = store.LoadFile(cfg.RegionsFile); err != nil {
			return err
		}
	}

	table, lookup, err := buildRegions(ctx, log, db, rdb, overrides, cfg.RegionCacheTTL, regionMetrics)
	if err != nil {
		return err
	}

	svc := service.New(table, lookup,
		service.WithLogger(log),
		service.WithMetrics(idmetrics.New()),
	)

	checks := map[string]httptransport.Checker{}
	if db != nil {
		checks["postgres"] = db
	}
	if rdb != nil {
		checks["redis"] = rdb
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:  log,
		Metrics: metrics.New(),
		Health:  httptransport.NewHealth(log, checks),
		Modules: []httptransport.Registrar{handler.New(svc, log)},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting idcard server",
			"addr", cfg.Server.Addr,
			"regions", table.Len(),
			"postgres", db != nil,
			"redis", rdb != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildRegions returns the in-memory snapshot used as the province registry
// and the lookup chain used for region names. With Postgres configured the
// table is seeded from the embedded fixture on first run and the snapshot is
// loaded from it; Redis, when configured, caches lookups against Postgres.
// Lookups fall back to the snapshot while the backends are failing. Entries
// from the overrides file win over the embedded fixture in both modes.
func buildRegions(
	ctx context.Context,
	log *slog.Logger,
	db *postgres.DB,
	rdb *redis.Client,
	overrides map[string]string,
	ttl time.Duration,
	m *regionmetrics.Metrics,
) (*store.InMemoryTable, service.RegionStore, error) {
	entries, err := store.FixtureEntries()
	if err != nil {
		return nil, nil, err
	}

	if db == nil {
		maps.Copy(entries, overrides)
		table := store.NewInMemoryTable(entries, m)
		if rdb != nil {
			log.Warn("REDIS_URL is set without DATABASE_URL; serving regions from memory")
		}
		return table, table, nil
	}

	pg := store.NewPostgresTable(db.DB, m)
	if err := pg.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	seeded, err := pg.SeedIfEmpty(ctx, entries)
	if err != nil {
		return nil, nil, err
	}
	if seeded {
		log.Info("seeded region table", "entries", len(entries))
	}
	if len(overrides) > 0 {
		if err := pg.Upsert(ctx, overrides); err != nil {
			return nil, nil, err
		}
		log.Info("applied region overrides", "entries", len(overrides))
	}

	table, err := store.LoadTable(ctx, pg, m)
	if err != nil {
		return nil, nil, err
	}

	var primary store.Source = pg
	if rdb != nil {
		cache := store.NewRedisCache(rdb.Client, pg, ttl, m)
		if len(overrides) > 0 {
			if err := cache.Invalidate(ctx, slices.Collect(maps.Keys(overrides))...); err != nil {
				log.Warn("failed to invalidate overridden regions", "error", err)
			}
		}
		primary = cache
	}
	return table, store.NewFallbackSource(primary, table, circuit.New("region-store"), log), nil
}
