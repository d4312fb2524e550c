package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort         string
	Environment     string
	ShutdownTimeout time.Duration

	MongoURL      string
	MongoDatabase string

	// Session lifetimes. Login and registration are tuned independently.
	SessionTTL         time.Duration
	RegisterSessionTTL time.Duration
	SessionSweepEvery  time.Duration

	CookieSecure   bool
	CookieSameSite string

	CORSOrigin string

	LogLevel     string
	LogFile      string
	VisitLogFile string

	SMTPHost         string
	SMTPPort         int
	EmailFrom        string
	EmailAppPassword string
}

// Load reads the process environment, optionally seeded from a .env file.
func Load() Config {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := Config{
		AppPort:     getEnv("APP_PORT", "1339"),
		Environment: getEnv("ENVIRONMENT", "development"),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		MongoURL:      getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "autovitals"),

		SessionTTL:         time.Duration(getEnvInt("SESSION_TTL_MINUTES", 20)) * time.Minute,
		RegisterSessionTTL: time.Duration(getEnvInt("REGISTER_SESSION_TTL_MINUTES", 10)) * time.Minute,
		SessionSweepEvery:  getEnvDuration("SESSION_SWEEP_INTERVAL", 0),

		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		CookieSameSite: strings.ToLower(getEnv("COOKIE_SAMESITE", "lax")),

		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFile:      os.Getenv("LOG_FILE"),
		VisitLogFile: getEnv("VISIT_LOG_FILE", "logs/visit.log"),

		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 465),
		EmailFrom:        os.Getenv("EMAIL"),
		EmailAppPassword: os.Getenv("EMAIL_APP_PASSWORD"),
	}

	return cfg
}

// Validate reports configuration that would make the service misbehave.
func (c Config) Validate() error {
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL_MINUTES must be positive")
	}
	if c.RegisterSessionTTL <= 0 {
		return errors.New("config: REGISTER_SESSION_TTL_MINUTES must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("config: SHUTDOWN_TIMEOUT must be positive")
	}
	if c.SessionSweepEvery < 0 {
		return errors.New("config: SESSION_SWEEP_INTERVAL must not be negative")
	}
	if _, err := ParseSameSite(c.CookieSameSite); err != nil {
		return err
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// ParseSameSite maps the COOKIE_SAMESITE value onto net/http constants.
func ParseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(v) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("config: unknown COOKIE_SAMESITE %q", v)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
