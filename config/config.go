// Package config loads runtime settings and opens the database.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds the settings read from the environment.
type Config struct {
	Port            string
	StoreDriver     string
	SQLitePath      string
	SeedProducts    bool
	AllowedOrigin   string
	LogLevel        string
	LogFormat       string
	GinMode         string
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) (bool, error) {
	v := getenv(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: %q is not a boolean", key, v)
	}
	return b, nil
}

func durenvs(key string, defSec int) time.Duration {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil || n <= 0 {
		n = defSec
	}
	return time.Duration(n) * time.Second
}

// Load reads an optional .env file followed by the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	seed, err := boolenv("SEED_PRODUCTS", true)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            getenv("PORT", "8080"),
		StoreDriver:     strings.ToLower(getenv("STORE_DRIVER", DriverMemory)),
		SQLitePath:      getenv("SQLITE_PATH", "./products.db"),
		SeedProducts:    seed,
		AllowedOrigin:   getenv("CORS_ALLOWED_ORIGIN", "http://localhost:3000"),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getenv("LOG_FORMAT", "json")),
		GinMode:         getenv("GIN_MODE", "release"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT %q is not a number", c.Port)
	}
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unknown GIN_MODE %q", c.GinMode)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}
