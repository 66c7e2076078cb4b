// Package config handles ambient configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvSpacing     = "BOREPATH_SPACING"
	EnvWorkers     = "BOREPATH_WORKERS"
	EnvLogLevel    = "BOREPATH_LOG_LEVEL"
	EnvEvalTimeout = "BOREPATH_EVAL_TIMEOUT_SECONDS"
)

// Config holds the defaults used by the command-line tools.
type Config struct {
	Spacing     float64       // sampling interval when a hole does not set one
	Workers     int           // concurrent holes in a batch
	LogLevel    string        // logrus level name
	EvalTimeout time.Duration // limit for one Lisp evaluation
}

// Load reads configuration from the environment. If files are given they are
// loaded with godotenv first; a missing file is not an error. Variables
// already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	spacing, err := getFloatEnv(EnvSpacing, 1.0)
	if err != nil {
		return nil, err
	}
	workers, err := getIntEnv(EnvWorkers, runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	timeout, err := getIntEnv(EnvEvalTimeout, 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Spacing:     spacing,
		Workers:     workers,
		LogLevel:    getEnv(EnvLogLevel, "info"),
		EvalTimeout: time.Duration(timeout) * time.Second,
	}, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Spacing > 0) {
		errs = append(errs, fmt.Errorf("%s must be positive, got %g", EnvSpacing, c.Spacing))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvWorkers, c.Workers))
	}
	if c.EvalTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", EnvEvalTimeout, c.EvalTimeout))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the configured log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// NewLogger returns a logrus logger at the configured level.
func (c *Config) NewLogger() *log.Logger {
	l := log.New()
	l.SetLevel(c.Level())
	return l
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
