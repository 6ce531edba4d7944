// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable of the server and the client.
type Config struct {
	Service   ServiceConfig
	API       APIConfig
	Datos     DatosConfig
	Cache     CacheConfig
	Admin     AdminConfig
	Logging   LoggingConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

// ServiceConfig identifies the running binary.
type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

// APIConfig points the client at the REST backend.
type APIConfig struct {
	BaseURL string
}

// DatosConfig locates the persisted state: the server's flat JSON data file
// and the client's key-value storage file.
type DatosConfig struct {
	Archivo        string
	ClienteStorage string
}

// CacheConfig tunes the client response cache.
type CacheConfig struct {
	TTLSeconds int
}

// AdminConfig seeds the primary administrator account.
type AdminConfig struct {
	Email    string
	Password string
}

// LoggingConfig sets the zerolog level.
type LoggingConfig struct {
	Level string
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

// ProfilingConfig controls Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

// ShutdownConfig tunes graceful shutdown.
type ShutdownConfig struct {
	TimeoutSeconds    int
	DrainDelaySeconds int
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "edificio-admin"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("SERVICE_ENV", "development"),
			Port:    getEnv("PORT", "8080"),
		},
		API: APIConfig{
			BaseURL: getEnv("API_BASE_URL", "http://localhost:8080/api"),
		},
		Datos: DatosConfig{
			Archivo:        getEnv("DATA_FILE", "data/edificio.json"),
			ClienteStorage: getEnv("CLIENT_STORAGE_FILE", defaultStoragePath()),
		},
		Cache: CacheConfig{
			TTLSeconds: getEnvInt("CACHE_TTL_SECONDS", 300),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@edificio.local"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			TimeoutSeconds:    getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
			DrainDelaySeconds: getEnvInt("READINESS_DRAIN_DELAY_SECONDS", 0),
		},
	}
}

// Validate enforces required fields.
func (c *Config) Validate() error {
	if c.Service.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Datos.Archivo == "" {
		return fmt.Errorf("DATA_FILE is required")
	}
	if c.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	return nil
}

// GetCacheTTL returns the client cache TTL as a duration.
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// GetShutdownTimeoutDuration returns the shutdown timeout as a duration.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.Shutdown.TimeoutSeconds) * time.Second
}

// GetReadinessDrainDelayDuration returns the drain delay as a duration.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return time.Duration(c.Shutdown.DrainDelaySeconds) * time.Second
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "edificio-cliente.json"
	}
	return dir + "/edificio-admin/storage.json"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
