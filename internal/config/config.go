// Package config provides server configuration loaded from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// Config holds intent-router configuration.
type Config struct {
	// COMMS: connect to standalone NATS at COMMSURL.
	COMMSURL  string `envconfig:"COMMS_URL" default:"nats://127.0.0.1:4222"`
	COMMSName string `envconfig:"SERVICE_NAME" default:"intent-router"`

	// Subject overrides (empty = built-in defaults)
	RouteSubject  string `envconfig:"ROUTER_SUBJECT"`
	ReloadSubject string `envconfig:"ROUTER_RELOAD_SUBJECT"`

	// Timeouts
	RequestTimeout time.Duration `envconfig:"ROUTER_REQUEST_TIMEOUT" default:"25s"`

	// Dispatch loop
	PollInterval time.Duration `envconfig:"ROUTER_POLL_INTERVAL" default:"25ms"`

	// Vocabulary files (empty = search defaults, then embedded fallback)
	IntentsFile   string `envconfig:"INTENTS_FILE"`
	ResponsesFile string `envconfig:"RESPONSES_FILE"`

	// Database; empty disables the dispatch audit log.
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"false"`

	// HTTP health endpoint (ROUTER_HTTP_ADDR preferred, e.g. "0.0.0.0:8080")
	HTTPAddr string `envconfig:"ROUTER_HTTP_ADDR"`
	HTTPPort int    `envconfig:"HTTP_PORT" default:"8080"`

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

// ValidateForServe checks required config when running the router server.
func (c *Config) ValidateForServe() error {
	if c.COMMSURL == "" {
		return fmt.Errorf("%s - COMMS_URL is required for serve", logPrefix)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - ROUTER_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%s - ROUTER_POLL_INTERVAL must be positive", logPrefix)
	}
	return nil
}

// ValidateForDB checks required config when running DB-dependent commands (migrate).
func (c *Config) ValidateForDB() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("%s - DATABASE_URL is required", logPrefix)
	}
	return nil
}
