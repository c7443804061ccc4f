// Package config loads process configuration from the environment and optional .env files
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	predictplot "github.com/aouyang1/go-predictplot"
	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/store"
)

var (
	ErrInvalidEnv       = errors.New("invalid environment variable")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds the application configuration
type Config struct {
	Host        string
	Port        string
	DatabaseURL string

	Horizon        int
	MAWindow       int
	SmoothingAlpha float64
	PolyDegree     int

	RequireConsent bool
	PersistTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads the given .env files, or .env in the working directory when none are given, and
// then builds the configuration from environment variables. Variables already set in the
// environment take precedence over the files and a missing file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("unable to load env file, %w", err)
		}
		slog.Debug(".env file not found, using environment only", "files", envFiles)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{
		Host:        getEnv("HOST", "0.0.0.0"),
		Port:        getEnv("PORT", "5000"),
		DatabaseURL: getEnv("DATABASE_URL", store.DefaultDatabaseURL),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", LogFormatText)),
	}

	if cfg.Horizon, err = getEnvInt("HORIZON", predictplot.DefaultHorizon); err != nil {
		return nil, err
	}
	if cfg.MAWindow, err = getEnvInt("MA_WINDOW", method.DefaultWindow); err != nil {
		return nil, err
	}
	if cfg.SmoothingAlpha, err = getEnvFloat("SMOOTHING_ALPHA", method.DefaultSmoothingAlpha); err != nil {
		return nil, err
	}
	if cfg.PolyDegree, err = getEnvInt("POLY_DEGREE", method.DefaultDegree); err != nil {
		return nil, err
	}
	if cfg.RequireConsent, err = getEnvBool("REQUIRE_CONSENT", true); err != nil {
		return nil, err
	}
	if cfg.PersistTimeout, err = getEnvDuration("PERSIST_TIMEOUT", predictplot.DefaultPersistTimeout); err != nil {
		return nil, err
	}

	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return nil, fmt.Errorf("got %q, %w", cfg.LogFormat, ErrUnknownLogFormat)
	}
	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Options returns validated orchestrator options built from the configuration
func (c *Config) Options() (*predictplot.Options, error) {
	methodOpt := method.NewDefaultOptions()
	methodOpt.Window = c.MAWindow
	methodOpt.SmoothingAlpha = c.SmoothingAlpha
	methodOpt.Degree = c.PolyDegree

	opt := &predictplot.Options{
		Horizon:        c.Horizon,
		Methods:        methodOpt,
		RequireConsent: c.RequireConsent,
		PersistTimeout: c.PersistTimeout,
	}
	return opt.Validate()
}

// SlogLevel maps LOG_LEVEL onto a slog level
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("got %q, %w", c.LogLevel, ErrUnknownLogLevel)
	}
}

// NewLogger returns a logger writing to w in the configured format and level
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.SlogLevel()
	handlerOpt := &slog.HandlerOptions{Level: level}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpt))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpt))
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q, %w", key, value, ErrInvalidEnv)
	}
	return res, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q, %w", key, value, ErrInvalidEnv)
	}
	return res, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s=%q, %w", key, value, ErrInvalidEnv)
	}
	return res, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	res, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s=%q, %w", key, value, ErrInvalidEnv)
	}
	return res, nil
}
