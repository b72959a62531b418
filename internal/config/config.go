package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// DatabaseURL may be empty; the db package falls back to a local default.
	DatabaseURL string `yaml:"database_url"`
	Environment string `yaml:"environment"`
	ListenAddr  string `yaml:"listen_addr"`
	BaseURL     string `yaml:"base_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// DebugEnabled allows the overlay; a browser still opts in with ?debug=true.
	DebugEnabled    bool   `yaml:"debug_enabled"`
	DebugToken      string `yaml:"debug_token" json:"-"`
	LogCapacity     int    `yaml:"log_capacity"`
	RequestCapacity int    `yaml:"request_capacity"`

	DBMaxConns      int32         `yaml:"db_max_conns"`
	DBIdleTimeout   time.Duration `yaml:"db_idle_timeout"`
	OutboundTimeout time.Duration `yaml:"outbound_timeout"`
}

func Defaults() Config {
	return Config{
		Environment:     EnvDevelopment,
		ListenAddr:      ":3000",
		DebugEnabled:    true,
		LogLevel:        "info",
		LogFormat:       "text",
		LogCapacity:     100,
		RequestCapacity: 50,
		DBMaxConns:      20,
		DBIdleTimeout:   30 * time.Second,
		OutboundTimeout: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, the optional YAML file named
// by CONFIG_FILE, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLFor(cfg.ListenAddr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("DEBUG_TOKEN"); v != "" {
		c.DebugToken = v
	}

	if v := os.Getenv("DEBUG_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DEBUG_ENABLED: %w", err)
		}
		c.DebugEnabled = b
	}

	if v := os.Getenv("DEBUG_LOG_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEBUG_LOG_CAPACITY: %w", err)
		}
		c.LogCapacity = n
	}

	if v := os.Getenv("DEBUG_REQUEST_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DEBUG_REQUEST_CAPACITY: %w", err)
		}
		c.RequestCapacity = n
	}

	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("DB_MAX_CONNS: %w", err)
		}
		c.DBMaxConns = int32(n)
	}

	if v := os.Getenv("DB_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("DB_IDLE_TIMEOUT: %w", err)
		}
		c.DBIdleTimeout = d
	}

	if v := os.Getenv("OUTBOUND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("OUTBOUND_TIMEOUT: %w", err)
		}
		c.OutboundTimeout = d
	}

	return nil
}

func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if c.LogCapacity <= 0 {
		return fmt.Errorf("log capacity must be positive, got %d", c.LogCapacity)
	}
	if c.RequestCapacity <= 0 {
		return fmt.Errorf("request capacity must be positive, got %d", c.RequestCapacity)
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}
	if c.DebugToken != "" && len(c.DebugToken) < 16 {
		return fmt.Errorf("DEBUG_TOKEN must be at least 16 characters")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func baseURLFor(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "http://localhost" + listenAddr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
