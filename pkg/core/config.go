package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"hitbtc/pkg/coin"
)

// API endpoints for the production and demo environments.
const (
	DefaultBaseURL = "https://api.hitbtc.com/api/2"
	SandboxBaseURL = "https://api.demo.hitbtc.com/api/2"
)

// Environment variables read by LoadEnv.
const (
	EnvPublicKey     = "HITBTC_PUBLIC_KEY"
	EnvPrivateKey    = "HITBTC_PRIVATE_KEY"
	EnvBaseURL       = "HITBTC_BASE_URL"
	EnvSandbox       = "HITBTC_SANDBOX"
	EnvCoinTable     = "HITBTC_COIN_TABLE"
	EnvCoinTablePath = "HITBTC_COIN_TABLE_PATH"
	EnvLogLevel      = "HITBTC_LOG_LEVEL"
	EnvTimeout       = "HITBTC_TIMEOUT"
)

// Config contains the options of a client.
type Config struct {
	Exchange string `json:"exchange" validate:"required"`
	// BaseURL overrides the environment-derived endpoint when set.
	BaseURL string `json:"base_url" validate:"omitempty,url"`
	Sandbox bool   `json:"sandbox"`

	// CoinTable selects a built-in coin spelling table.
	CoinTable string `json:"coin_table" validate:"omitempty,oneof=2 3"`
	// CoinTablePath loads the coin table from a YAML file instead.
	CoinTablePath string `json:"coin_table_path,omitempty"`

	// Credentials are required for private endpoints only.
	Credentials *Credentials `json:"credentials,omitempty" validate:"-"`

	// Timeout is the maximum duration for HTTP requests.
	Timeout  time.Duration `json:"timeout" validate:"min=1ms"`
	LogLevel string        `json:"log_level" validate:"omitempty,oneof=trace debug info warn error disabled"`
}

// DefaultConfig returns a Config for the production API with a 10s
// timeout and the v2 coin table.
func DefaultConfig() *Config {
	return &Config{
		Exchange:  "hitbtc",
		Sandbox:   false,
		CoinTable: coin.VersionV2,
		Timeout:   10 * time.Second,
		LogLevel:  "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.CoinTable == "" && c.CoinTablePath == "" {
		return errors.New("either CoinTable or CoinTablePath must be set")
	}
	return nil
}

// ResolveBaseURL returns the endpoint requests are sent to.
func (c *Config) ResolveBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Sandbox {
		return SandboxBaseURL
	}
	return DefaultBaseURL
}

// ResolveCoinTable returns the coin table selected by the config.
// CoinTablePath wins over CoinTable.
func (c *Config) ResolveCoinTable() (*coin.Table, error) {
	if c.CoinTablePath != "" {
		return coin.LoadTable(c.CoinTablePath)
	}
	return coin.TableFor(c.CoinTable)
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithSandbox enables or disables sandbox mode and returns the config for chaining.
func (c *Config) WithSandbox(sandbox bool) *Config {
	c.Sandbox = sandbox
	return c
}

// WithBaseURL overrides the endpoint and returns the config for chaining.
func (c *Config) WithBaseURL(baseURL string) *Config {
	c.BaseURL = baseURL
	return c
}

// WithCoinTable selects a built-in coin table and returns the config for chaining.
func (c *Config) WithCoinTable(version string) *Config {
	c.CoinTable = version
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithLogLevel sets the log level and returns the config for chaining.
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// LoadEnv loads path (".env" when empty) into the process environment and
// builds a Config from the HITBTC_* variables. A missing file is not an
// error; variables already set in the environment take precedence.
func LoadEnv(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.BaseURL = os.Getenv(EnvBaseURL)
	cfg.CoinTablePath = os.Getenv(EnvCoinTablePath)

	if v := os.Getenv(EnvCoinTable); v != "" {
		cfg.CoinTable = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvSandbox); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvSandbox, err)
		}
		cfg.Sandbox = sandbox
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = timeout
	}

	pub, priv := os.Getenv(EnvPublicKey), os.Getenv(EnvPrivateKey)
	if pub != "" || priv != "" {
		creds, err := NewCredentials(pub, priv)
		if err != nil {
			return nil, fmt.Errorf("credentials from environment: %w", err)
		}
		cfg.Credentials = creds
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
