package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds runtime settings for the Deuce CLI.
//
// Durations are time.Duration values; JSON and env accept Go duration
// strings such as "30s" or "10m".
type Config struct {
	// BaseURL is the root of the Deuce REST backend, e.g. https://api.deuceleague.com.
	BaseURL string
	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration
	// OTPTTL is how long a verified reset code stays usable on this device.
	OTPTTL time.Duration
	// SettleDelay is the pause after storing a verified code before moving on.
	SettleDelay time.Duration
	// HydrationDelay is the pause before reading stored reset state on resume.
	HydrationDelay time.Duration
	// DataDir holds the encrypted local store and its device key.
	DataDir string
	// LogFile, when set, enables the rotating file logger.
	LogFile string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// PageSize is the number of matches fetched per history page.
	PageSize int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 30 * time.Second
	c.OTPTTL = 10 * time.Minute
	c.SettleDelay = 300 * time.Millisecond
	c.HydrationDelay = 100 * time.Millisecond
	c.DataDir = defaultDataDir()
	c.LogFile = ""
	c.LogLevel = "info"
	c.PageSize = 20
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "deuce"
	}
	return ".deuce"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base url %q", c.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported base url scheme %q", u.Scheme)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.OTPTTL <= 0 {
		return errors.New("otp ttl must be positive")
	}
	if c.SettleDelay < 0 || c.HydrationDelay < 0 {
		return errors.New("delays must not be negative")
	}
	if c.DataDir == "" {
		return errors.New("data dir is required")
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return fmt.Errorf("page size must be in 1..100, got %d", c.PageSize)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file (if any),
// then the environment, then command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], ".env")
}

func load(args []string, envFile string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
