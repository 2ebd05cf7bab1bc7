package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr string

	//Auth / Security
	JWTSecret      string
	JWTIssuer      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	// Infrastructure
	DBAddr         string // empty in dev selects the in-memory store
	DBDebug        bool
	RedisAddr      string // empty disables Redis (memory denylist, in-process limiter)
	RedisPassword  string
	RedisDB        int
	RabbitURL      string // empty disables event publishing
	RabbitExchange string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Login throttling per client IP
	LoginRateLimit  int
	LoginRateWindow time.Duration

	EnableFakeUsers bool

	LogLevel  string
	LogFormat string
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	cfg := &Config{
		Env:            strings.ToLower(getEnv("ENV", "dev")),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		JWTIssuer:      getEnv("JWT_ISSUER", "user-service"),
		DBAddr:         os.Getenv("DB_ADDR"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "users.events"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}

	switch cfg.Env {
	case "dev", "staging", "prod":
	default:
		return nil, fmt.Errorf("invalid ENV %q: want dev, staging or prod", cfg.Env)
	}

	// required values
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env var: JWT_SECRET")
	}
	if cfg.DBAddr == "" && cfg.Env != "dev" {
		return nil, fmt.Errorf("missing required env var: DB_ADDR")
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}
	if cfg.LoginRateWindow, err = getDuration("LOGIN_RATE_WINDOW", time.Minute); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = getInt("LOGIN_RATE_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.EnableFakeUsers, err = getBool("ENABLE_FAKE_USERS", false); err != nil {
		return nil, err
	}

	if cfg.AccessTokenTTL <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

// FakeUsersEnabled gates the insert-fake route; never on in prod.
func (c *Config) FakeUsersEnabled() bool {
	return c.EnableFakeUsers && c.Env != "prod"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
