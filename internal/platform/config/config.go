package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration assembled from the environment.
type Config struct {
	Server         Server
	Database       DatabaseConfig
	Redis          RedisConfig
	Log            LogConfig
	RegionCacheTTL time.Duration
	// RegionsFile optionally points at a YAML file whose entries override
	// the embedded region fixture.
	RegionsFile string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	RegulatedMode bool
}

// DatabaseConfig points at the Postgres region table. An empty URL disables it.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the region lookup cache. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig selects the slog handler and level.
type LogConfig struct {
	Level  slog.Level
	Format string
}

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// DefaultRegionCacheTTL bounds how long a region name stays in Redis.
const DefaultRegionCacheTTL = 10 * time.Minute

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	env := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	var (
		cfg Config
		err error
	)

	cfg.Server = Server{
		Addr:          env("IDCARD_ADDR", ":8080"),
		RegulatedMode: env("REGULATED_MODE", "false") == "true",
	}

	cfg.Database.URL = env("DATABASE_URL", "")
	if cfg.Database.MaxOpenConns, err = intVar(env, "DATABASE_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}
	if cfg.Database.MaxIdleConns, err = intVar(env, "DATABASE_MAX_IDLE_CONNS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Database.ConnMaxLifetime, err = durationVar(env, "DATABASE_CONN_MAX_LIFETIME", 30*time.Minute); err != nil {
		return Config{}, err
	}

	cfg.Redis.URL = env("REDIS_URL", "")
	if cfg.Redis.PoolSize, err = intVar(env, "REDIS_POOL_SIZE", 10); err != nil {
		return Config{}, err
	}
	if cfg.Redis.MinIdleConns, err = intVar(env, "REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return Config{}, err
	}
	if cfg.Redis.DialTimeout, err = durationVar(env, "REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.ReadTimeout, err = durationVar(env, "REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.Redis.WriteTimeout, err = durationVar(env, "REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.RegionCacheTTL, err = durationVar(env, "REGION_CACHE_TTL", DefaultRegionCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RegionCacheTTL <= 0 {
		return Config{}, fmt.Errorf("REGION_CACHE_TTL must be positive, got %s", cfg.RegionCacheTTL)
	}

	cfg.RegionsFile = env("REGIONS_FILE", "")

	if err := cfg.Log.Level.UnmarshalText([]byte(env("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.Log.Format = strings.ToLower(env("LOG_FORMAT", LogFormatJSON))
	if cfg.Log.Format != LogFormatJSON && cfg.Log.Format != LogFormatText {
		return Config{}, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatText, cfg.Log.Format)
	}

	return cfg, nil
}

func intVar(env func(string, string) string, key string, def int) (int, error) {
	raw := env(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw)
	}
	return n, nil
}

func durationVar(env func(string, string) string, key string, def time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
