// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Lookup table backends.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Config holds netline-server configuration.
type Config struct {
	// TCP listener
	BindAddr string `envconfig:"BIND_ADDR" default:"0.0.0.0"`
	Port     int    `envconfig:"PORT" default:"5050"`

	// Identity reported by SYSTEM_INFO and the startup banner.
	ServerName    string `envconfig:"SERVER_NAME" default:"netline-server"`
	ServerVersion string `envconfig:"SERVER_VERSION" default:"1.0.0"`

	// MaxLineBytes bounds one request line; longer lines end the session.
	MaxLineBytes int `envconfig:"MAX_LINE_BYTES" default:"65536"`

	// Lookup table backing FILE_QUERY
	LookupBackend string `envconfig:"LOOKUP_BACKEND" default:"file"`
	LookupFile    string `envconfig:"LOOKUP_FILE" default:"data.json"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`

	// Lifecycle events: publish to COMMS at COMMS_URL when enabled.
	EventsEnabled bool   `envconfig:"EVENTS_ENABLED" default:"false"`
	COMMSURL      string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName     string `envconfig:"SERVICE_NAME" default:"netline-server"`

	// HTTP health endpoint (0 disables)
	HTTPPort           int           `envconfig:"HTTP_PORT" default:"8080"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Addr returns the TCP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// ValidateForServe checks required config before the listener binds.
func (c *Config) ValidateForServe() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%s - PORT must be between 0 and 65535", logPrefix)
	}
	if c.MaxLineBytes <= 0 {
		return fmt.Errorf("%s - MAX_LINE_BYTES must be positive", logPrefix)
	}
	if _, err := semver.NewVersion(c.ServerVersion); err != nil {
		return fmt.Errorf("%s - SERVER_VERSION %q is not a valid semantic version: %w", logPrefix, c.ServerVersion, err)
	}

	switch strings.ToLower(c.LookupBackend) {
	case BackendFile:
		if c.LookupFile == "" {
			return fmt.Errorf("%s - LOOKUP_FILE is required for the file backend", logPrefix)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s - DATABASE_URL is required for the postgres backend", logPrefix)
		}
	default:
		return fmt.Errorf("%s - LOOKUP_BACKEND must be %q or %q", logPrefix, BackendFile, BackendPostgres)
	}

	if c.EventsEnabled && c.COMMSURL == "" {
		return fmt.Errorf("%s - COMMS_URL is required when EVENTS_ENABLED is set", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	return nil
}
