package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies WHALEINTEL_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. An empty path skips the
// TOML file and uses defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known WHALEINTEL_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "WHALEINTEL_POSTGRES_DSN")
	setInt(&cfg.Postgres.PoolMaxConns, "WHALEINTEL_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "WHALEINTEL_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "WHALEINTEL_POSTGRES_RUN_MIGRATIONS")

	// ── ClickHouse ──
	setStr(&cfg.Clickhouse.DSN, "WHALEINTEL_CLICKHOUSE_DSN")
	setBool(&cfg.Clickhouse.RunMigrations, "WHALEINTEL_CLICKHOUSE_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "WHALEINTEL_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "WHALEINTEL_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "WHALEINTEL_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "WHALEINTEL_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "WHALEINTEL_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "WHALEINTEL_REDIS_MAX_RETRIES")
	setDuration(&cfg.Redis.ResponseTTL, "WHALEINTEL_REDIS_RESPONSE_TTL")

	// ── Server ──
	setInt(&cfg.Server.Port, "WHALEINTEL_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "WHALEINTEL_SERVER_CORS_ORIGINS")

	// ── Aggregation ──
	setBool(&cfg.Aggregation.Enabled, "WHALEINTEL_AGGREGATION_ENABLED")
	setDuration(&cfg.Aggregation.Interval, "WHALEINTEL_AGGREGATION_INTERVAL")
	setDuration(&cfg.Aggregation.Window, "WHALEINTEL_AGGREGATION_WINDOW")

	// ── Top-level ──
	setStr(&cfg.Storage, "WHALEINTEL_STORAGE")
	setStr(&cfg.LogLevel, "WHALEINTEL_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
