package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to field names for environment variable lookup,
// e.g. WOUNDFLOW_PORT overrides Port.
const EnvPrefix = "WOUNDFLOW_"

// Config holds the runtime settings for the upload server and batch runs.
type Config struct {
	// Host is the listen address for the upload server.
	Host string `yaml:"host"`

	// Port is the listen port for the upload server.
	Port int `yaml:"port"`

	// Env selects the runtime environment: "development" or "production".
	Env string `yaml:"env"`

	// TempDir is where uploaded images and rendered responses are staged.
	// Empty means a fresh directory under os.TempDir().
	TempDir string `yaml:"tempDir"`

	// CleanupDelay is how long a served response file lingers on disk
	// before the scheduler removes it.
	CleanupDelay time.Duration `yaml:"cleanupDelay"`

	// APIKeyHash is the SHA-256 hex digest of the accepted API key.
	// Empty disables API-key authentication.
	APIKeyHash string `yaml:"apiKeyHash"`

	// JWTSecret signs and verifies bearer tokens. Empty disables JWT
	// authentication.
	JWTSecret string `yaml:"jwtSecret"`

	// WebhookURL, when set, receives batch lifecycle notifications.
	WebhookURL string `yaml:"webhookUrl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:         "127.0.0.1",
		Port:         8080,
		Env:          "development",
		CleanupDelay: time.Second,
	}
}

// Load resolves configuration from defaults, an optional YAML file, and
// environment variables. An empty path skips the file layer; a path that
// does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPrefix + "HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvPrefix + "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %sPORT: %w", EnvPrefix, err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvPrefix + "ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv(EnvPrefix + "TEMP_DIR"); v != "" {
		c.TempDir = v
	}
	if v := os.Getenv(EnvPrefix + "CLEANUP_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sCLEANUP_DELAY: %w", EnvPrefix, err)
		}
		c.CleanupDelay = d
	}
	if v := os.Getenv(EnvPrefix + "API_KEY_HASH"); v != "" {
		c.APIKeyHash = v
	}
	if v := os.Getenv(EnvPrefix + "JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv(EnvPrefix + "WEBHOOK_URL"); v != "" {
		c.WebhookURL = v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("unknown env %q", c.Env)
	}
	if c.CleanupDelay < 0 {
		return fmt.Errorf("negative cleanup delay %v", c.CleanupDelay)
	}
	return nil
}

// IsDev reports whether the config targets the development environment.
func (c Config) IsDev() bool {
	return c.Env == "development"
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
