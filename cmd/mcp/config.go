package main

import (
	"github.com/elC0mpa/cloud-doctor/cmd/mcp/tools"
	"github.com/elC0mpa/cloud-doctor/config"
)

const serverName = "cloud-doctor-mcp"

// Config holds environment-based configuration of the MCP server
type Config struct {
	config.Config
}

// LoadConfig reads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return &Config{Config: cfg}, nil
}

// HasMetrics returns true if the Prometheus endpoint should be served
func (c *Config) HasMetrics() bool {
	return c.MetricsAddr != ""
}

// Defaults returns the run options applied when a tool call omits them
func (c *Config) Defaults() (tools.Defaults, error) {
	creds, err := c.Credentials()
	if err != nil {
		return tools.Defaults{}, err
	}
	return tools.Defaults{
		ProjectID:   c.ProjectID,
		Mode:        c.Mode,
		Industry:    c.Industry,
		Credentials: creds,
	}, nil
}
