package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuthMode selects how login proofs are issued and verified.
type AuthMode string

const (
	// AuthModeToken issues signed JWTs carried in the Authorization header.
	AuthModeToken AuthMode = "token"
	// AuthModeSession stores sessions in Redis and hands out a cookie.
	AuthModeSession AuthMode = "session"
)

const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
// It is built once at startup and must not be modified afterwards.
type Config struct {
	ServerPort      string
	ShutdownTimeout time.Duration

	DBDriver string
	DBDSN    string
	ResetDB  bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	AuthMode      AuthMode
	JWTSecret     string
	JWTTTL        time.Duration
	SessionTTL    time.Duration
	SessionCookie string
	CookieSecure  bool

	CORSAllowedOrigins []string
	SwaggerHost        string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),

		DBDriver: getEnv("DB_DRIVER", "mysql"),
		DBDSN:    getEnv("DB_DSN", "user:password@tcp(localhost:3306)/travelshare?charset=utf8mb4&parseTime=True&loc=Local"),
		ResetDB:  getBoolEnv("RESET_DB", false),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		AuthMode:      AuthMode(strings.ToLower(getEnv("AUTH_MODE", string(AuthModeToken)))),
		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:        getDurationEnv("JWT_TTL", 24*time.Hour),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),
		SessionCookie: getEnv("SESSION_COOKIE", "travelshare_session"),
		CookieSecure:  getBoolEnv("COOKIE_SECURE", false),

		CORSAllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SwaggerHost:        os.Getenv("SWAGGER_HOST"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be served.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeToken:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=token")
		}
		if c.JWTSecret == defaultJWTSecret {
			log.Println("Warning: JWT_SECRET is using the default value; set it before deploying")
		}
		if c.JWTTTL == 0 {
			log.Println("Warning: JWT_TTL=0, issued tokens never expire")
		}
	case AuthModeSession:
		if c.SessionTTL <= 0 {
			return fmt.Errorf("SESSION_TTL must be positive when AUTH_MODE=session")
		}
		if c.SessionCookie == "" {
			return fmt.Errorf("SESSION_COOKIE is required when AUTH_MODE=session")
		}
	default:
		return fmt.Errorf("unsupported AUTH_MODE %q", c.AuthMode)
	}

	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTTTL < 0 {
		return fmt.Errorf("JWT_TTL must not be negative")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}

func getStringSliceEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return def
	}
	return parts
}
