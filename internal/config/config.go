// Package config holds the gateway configuration. Load() merges baked-in
// defaults, an optional config.yaml, and environment variable overrides, then
// validates the result. Values are read once at startup and injected into the
// components; nothing re-reads the environment per request.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Auth modes.
const (
	AuthModeStatic = "static"
	AuthModeJWT    = "jwt"
)

// Config is the complete gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OpenShock OpenShockConfig `yaml:"openshock"`
	Auth      AuthConfig      `yaml:"auth"`
	Safety    SafetyConfig    `yaml:"safety"`
	Audit     AuditConfig     `yaml:"audit"`
}

// ServerConfig holds the HTTP server identity and timeouts.
type ServerConfig struct {
	Name            string `yaml:"name"`
	Version         string `yaml:"version"`
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"readTimeoutSec"`
	WriteTimeoutSec int    `yaml:"writeTimeoutSec"`
	IdleTimeoutSec  int    `yaml:"idleTimeoutSec"`
}

// OpenShockConfig holds the downstream API settings.
type OpenShockConfig struct {
	APIURL     string `yaml:"apiUrl"`
	Token      string `yaml:"token"`
	TimeoutSec int    `yaml:"timeoutSec"`
}

// AuthConfig holds the inbound credential settings.
type AuthConfig struct {
	Mode      string `yaml:"mode"`
	Token     string `yaml:"token"`
	JWTSecret string `yaml:"jwtSecret"`
}

// SafetyConfig holds the safety clamp settings.
type SafetyConfig struct {
	// MaxShockIntensity caps SHOCK commands. Zero means unlimited.
	MaxShockIntensity int `yaml:"maxShockIntensity"`
}

// AuditConfig holds the audit log settings.
type AuditConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// Defaults returns the baked-in configuration baseline.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:            "openshock-mcp-server",
			Version:         "1.0.0",
			Port:            8000,
			ReadTimeoutSec:  30,
			WriteTimeoutSec: 30,
			IdleTimeoutSec:  120,
		},
		OpenShock: OpenShockConfig{
			APIURL:     "https://api.openshock.app",
			TimeoutSec: 30,
		},
		Auth: AuthConfig{
			Mode: AuthModeStatic,
		},
		Audit: AuditConfig{
			Path:       "logs/audit.jsonl",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}
}

// Load builds the configuration: defaults, then the optional config file,
// then environment overrides, then validation.
func Load() (*Config, error) {
	cfg := Defaults()

	path := os.Getenv("MCP_CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if _, err := os.Stat(path); err == nil {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile unmarshals the YAML file over the current values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides applies environment variables on top of the config.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("MCP_SERVER_NAME"); val != "" {
		cfg.Server.Name = val
	}
	if val := os.Getenv("MCP_VERSION"); val != "" {
		cfg.Server.Version = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("OPENSHOCK_API_URL"); val != "" {
		cfg.OpenShock.APIURL = val
	}
	if val := os.Getenv("OPENSHOCK_API_TOKEN"); val != "" {
		cfg.OpenShock.Token = val
	}
	if val := os.Getenv("OPENSHOCK_TIMEOUT_SEC"); val != "" {
		if sec, err := strconv.Atoi(val); err == nil {
			cfg.OpenShock.TimeoutSec = sec
		}
	}
	if val := os.Getenv("MCP_AUTH_MODE"); val != "" {
		cfg.Auth.Mode = val
	}
	if val := os.Getenv("MCP_AUTH_TOKEN"); val != "" {
		cfg.Auth.Token = val
	}
	if val := os.Getenv("MCP_JWT_SECRET"); val != "" {
		cfg.Auth.JWTSecret = val
	}
	if val := os.Getenv("MCP_MAX_SHOCK_INTENSITY"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil {
			cfg.Safety.MaxShockIntensity = limit
		}
	}
	if val := os.Getenv("MCP_AUDIT_LOG"); val != "" {
		cfg.Audit.Path = val
	}
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.OpenShock.Token == "" {
		return errors.New("OPENSHOCK_API_TOKEN is required")
	}
	if c.OpenShock.APIURL == "" {
		return errors.New("OpenShock API URL must not be empty")
	}
	switch c.Auth.Mode {
	case AuthModeStatic:
		if c.Auth.Token == "" {
			return errors.New("MCP_AUTH_TOKEN is required in static auth mode")
		}
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("MCP_JWT_SECRET is required in jwt auth mode")
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}
	if c.Safety.MaxShockIntensity < 0 {
		return errors.New("max shock intensity must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// OpenShockTimeout returns the downstream request timeout.
func (c *Config) OpenShockTimeout() time.Duration {
	return time.Duration(c.OpenShock.TimeoutSec) * time.Second
}
