package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Booking  BookingConfig
	Layout   LayoutConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
}

// DSN renders the connection string understood by pgxpool.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

type BookingConfig struct {
	// Timeout bounds one booking attempt including its retries.
	Timeout time.Duration
	// MaxRetries is how many times a serialization failure is retried.
	MaxRetries int
	// PaymentTTL is how long a booked ticket may stay unpaid.
	PaymentTTL time.Duration
	// SweepInterval is how often unpaid tickets past their deadline are released.
	SweepInterval time.Duration
	// RateLimit is the number of bookings a client may attempt per RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// IdempotencyTTL is how long a booking response is replayable.
	IdempotencyTTL time.Duration
	// CacheTTL is the lifetime of cached availability projections.
	CacheTTL time.Duration
}

type LayoutConfig struct {
	// File optionally replaces the built-in template catalog.
	File string
}

type LogConfig struct {
	Level slog.Level
}

// New loads configuration from the environment. envFile, when non-empty, is
// read first; otherwise a .env in the working directory is used if present.
// Variables already set in the environment win over the file.
func New(envFile string) (*Config, error) {
	const op = "config.New"

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("%s: load %s: %w", op, envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var errs []string
	p := parser{errs: &errs}

	serverCfg := ServerConfig{
		Host: p.str("SERVER_HOST", "localhost"),
		Port: p.int("SERVER_PORT", 8080),
	}

	postgresCfg := PostgresConfig{
		User:     p.required("POSTGRES_USER"),
		Password: p.required("POSTGRES_PASSWORD"),
		Name:     p.required("POSTGRES_DB"),
		Host:     p.str("POSTGRES_HOST", "localhost"),
		Port:     p.int("POSTGRES_PORT", 5432),
		SSLMode:  p.str("POSTGRES_SSLMODE", "disable"),
		MaxConns: int32(p.int("POSTGRES_MAX_CONNS", 0)),
	}

	redisCfg := RedisConfig{
		Addr:     p.str("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       p.int("REDIS_DB", 0),
	}

	bookingCfg := BookingConfig{
		Timeout:        p.duration("BOOKING_TIMEOUT", 5*time.Second),
		MaxRetries:     p.int("BOOKING_MAX_RETRIES", 5),
		PaymentTTL:     p.duration("BOOKING_PAYMENT_TTL", 15*time.Minute),
		SweepInterval:  p.duration("BOOKING_SWEEP_INTERVAL", time.Minute),
		RateLimit:      p.int("BOOKING_RATE_LIMIT", 10),
		RateWindow:     p.duration("BOOKING_RATE_WINDOW", time.Minute),
		IdempotencyTTL: p.duration("BOOKING_IDEMPOTENCY_TTL", 2*time.Hour),
		CacheTTL:       p.duration("AVAILABILITY_CACHE_TTL", 15*time.Second),
	}

	logCfg := LogConfig{Level: p.level("LOG_LEVEL", slog.LevelInfo)}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %s", op, strings.Join(errs, "; "))
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Booking:  bookingCfg,
		Layout:   LayoutConfig{File: os.Getenv("LAYOUT_FILE")},
		Log:      logCfg,
	}, nil
}

// parser reads variables and collects every problem instead of stopping at
// the first one.
type parser struct {
	errs *[]string
}

func (p parser) fail(format string, args ...any) {
	*p.errs = append(*p.errs, fmt.Sprintf(format, args...))
}

func (p parser) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (p parser) required(key string) string {
	v := os.Getenv(key)
	if v == "" {
		p.fail("missing %s", key)
	}
	return v
}

func (p parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail("invalid %s: %v", key, err)
		return def
	}
	return n
}

func (p parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		p.fail("invalid %s: %q", key, v)
		return def
	}
	return d
}

func (p parser) level(key string, def slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		p.fail("invalid %s: %q", key, v)
		return def
	}
	return l
}
