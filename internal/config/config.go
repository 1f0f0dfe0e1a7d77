// Package config provides centralized configuration for the BIS server.
// All configurable values are loaded from environment variables with sensible defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles are read by LoadEnvFiles when no paths are given.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config holds all server configuration values.
type Config struct {
	// Port is the HTTP server listen port.
	Port string

	// DBPath is the SQLite decision journal. Empty disables the journal.
	DBPath string

	// SeedPath is a YAML seed file. Empty uses the built-in seed.
	SeedPath string

	// CORSOrigin is the allowed CORS and websocket origin. Defaults to "*".
	CORSOrigin string

	// NotifyQueueSize bounds the notification queue; overflow is dropped.
	NotifyQueueSize int

	// SessionTTL is how long an idle review session is kept. Zero disables expiry.
	SessionTTL time.Duration

	// PruneInterval is how often expired sessions are swept.
	PruneInterval time.Duration

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port:            envOr("PORT", "8080"),
		DBPath:          envOrEmpty("DB_PATH", "bis.db"),
		SeedPath:        os.Getenv("SEED_PATH"),
		CORSOrigin:      envOr("CORS_ORIGIN", "*"),
		NotifyQueueSize: envInt("NOTIFY_QUEUE_SIZE", 256),
		SessionTTL:      envDuration("SESSION_TTL", 2*time.Hour),
		PruneInterval:   envDuration("PRUNE_INTERVAL", time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        strings.ToLower(envOr("LOG_LEVEL", "info")),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT cannot be empty"))
	} else if n, err := strconv.Atoi(c.Port); err != nil || n < 0 || n > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if c.NotifyQueueSize <= 0 {
		errs = append(errs, errors.New("NOTIFY_QUEUE_SIZE must be > 0"))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, errors.New("SESSION_TTL cannot be negative"))
	}
	if c.SessionTTL > 0 && c.PruneInterval <= 0 {
		errs = append(errs, errors.New("PRUNE_INTERVAL must be > 0 when SESSION_TTL is set"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be debug, info, warn or error", c.LogLevel))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// JournalEnabled reports whether decisions are recorded to SQLite.
func (c Config) JournalEnabled() bool {
	return c.DBPath != ""
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// LoadEnvFiles loads KEY=VALUE files into the environment. Variables already
// set in the real environment take precedence; missing files are skipped.
// It returns the files that were loaded.
func LoadEnvFiles(paths ...string) ([]string, error) {
	if len(paths) == 0 {
		paths = DefaultEnvFiles
	}
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrEmpty is envOr, except that a variable explicitly set to "" is kept.
func envOrEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
