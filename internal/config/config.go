package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Provider exposes configuration values to the rest of the application.
// Handlers and services depend on this interface so tests can swap in
// small fakes instead of building a full Config.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetDBDriver() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetEmailProvider() string
	GetEmailAPIKey() string
	GetEmailSender() string
	GetAuthTimeout() time.Duration
	GetFormIdleTimeout() time.Duration
	GetTracingEnabled() bool
	GetTracingServiceName() string
	GetTracingZipkinURL() string
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr         string
	AppBaseURL      string
	SessionSecret   string
	DBDriver        string
	DBUrl           string
	DBNs            string
	DBDb            string
	DBUser          string
	DBPass          string
	EmailProvider   string
	EmailAPIKey     string
	EmailSender     string
	AuthTimeout     time.Duration
	FormIdleTimeout time.Duration

	// Auth event tracing, exported to Zipkin when enabled.
	TracingEnabled     bool
	TracingServiceName string
	TracingZipkinURL   string
}

const (
	DriverMemory  = "memory"
	DriverSurreal = "surreal"
)

// Email providers accepted in EMAIL_PROVIDER.
const (
	EmailProviderLog    = "log"
	EmailProviderResend = "resend"
)

// Load reads the optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AppAddr:       getenv("APP_ADDR", ":8080"),
		AppBaseURL:    getenv("APP_BASE_URL", "http://localhost:8080"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBDriver:      strings.ToLower(getenv("DB_DRIVER", DriverMemory)),
		DBUrl:         os.Getenv("SURREAL_URL"),
		DBUser:        os.Getenv("SURREAL_USER"),
		DBPass:        os.Getenv("SURREAL_PASS"),
		DBNs:          os.Getenv("SURREAL_NS"),
		DBDb:          os.Getenv("SURREAL_DB"),
		EmailProvider: getenv("EMAIL_PROVIDER", EmailProviderLog),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),

		TracingServiceName: getenv("PUBSUB_TRACING_SERVICE_NAME", "authform"),
		TracingZipkinURL:   getenv("PUBSUB_TRACING_ZIPKIN_URL", "http://localhost:9411/api/v2/spans"),
	}

	var err error
	if cfg.AuthTimeout, err = durationEnv("AUTH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FormIdleTimeout, err = durationEnv("FORM_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.TracingEnabled, err = boolEnv("PUBSUB_TRACING_ENABLED", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is not set")
	}
	switch c.DBDriver {
	case DriverMemory:
	case DriverSurreal:
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			return errors.New("required environment variables SURREAL_URL, SURREAL_NS, or SURREAL_DB are not set")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER: %s", c.DBDriver)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func (c *Config) GetAppAddr() string                { return c.AppAddr }
func (c *Config) GetAppBaseURL() string             { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string          { return c.SessionSecret }
func (c *Config) GetDBDriver() string               { return c.DBDriver }
func (c *Config) GetDBURL() string                  { return c.DBUrl }
func (c *Config) GetDBNs() string                   { return c.DBNs }
func (c *Config) GetDBDb() string                   { return c.DBDb }
func (c *Config) GetDBUser() string                 { return c.DBUser }
func (c *Config) GetDBPass() string                 { return c.DBPass }
func (c *Config) GetEmailProvider() string          { return c.EmailProvider }
func (c *Config) GetEmailAPIKey() string            { return c.EmailAPIKey }
func (c *Config) GetEmailSender() string            { return c.EmailSender }
func (c *Config) GetAuthTimeout() time.Duration     { return c.AuthTimeout }
func (c *Config) GetFormIdleTimeout() time.Duration { return c.FormIdleTimeout }
func (c *Config) GetTracingEnabled() bool           { return c.TracingEnabled }
func (c *Config) GetTracingServiceName() string     { return c.TracingServiceName }
func (c *Config) GetTracingZipkinURL() string       { return c.TracingZipkinURL }
