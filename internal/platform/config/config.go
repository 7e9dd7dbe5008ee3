package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	AppVersion  string
	HTTPPort    string
	PostgresDSN string
	LogLevel    string

	AutoMigrate       bool
	CORSAllowedOrigin string
	ShutdownTimeout   time.Duration
}

// Load reads .env and .env.<APP_ENV> when present, then the process
// environment. Precedence: process env, then .env.<APP_ENV>, then .env.
func Load() (Config, error) {
	return load(".")
}

func load(dir string) (Config, error) {
	if err := loadEnvFiles(dir); err != nil {
		return Config{}, err
	}

	timeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName: envString("SERVICE_NAME", "zodchiy"),
		AppVersion:  envString("APP_VERSION", "1.9.0"),
		HTTPPort:    envString("HTTP_PORT", "8080"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		LogLevel:    strings.ToLower(envString("LOG_LEVEL", "info")),

		AutoMigrate:       envBool("STORAGE_AUTO_MIGRATE", true),
		CORSAllowedOrigin: envString("CORS_ALLOWED_ORIGIN", "*"),
		ShutdownTimeout:   timeout,
	}, nil
}

// loadEnvFiles merges .env and then .env.<APP_ENV>, the later file winning on
// shared keys, and exports only keys the process environment does not set.
func loadEnvFiles(dir string) error {
	files := []string{filepath.Join(dir, ".env")}
	if appEnv := strings.TrimSpace(os.Getenv("APP_ENV")); appEnv != "" {
		files = append(files, filepath.Join(dir, ".env."+appEnv))
	}

	merged := make(map[string]string)
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", file, err)
		}
		values, err := godotenv.Read(file)
		if err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
		for key, value := range values {
			merged[key] = value
		}
	}

	for key, value := range merged {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("export %s: %w", key, err)
		}
	}
	return nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
