// Package config loads runtime configuration from environment variables.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/elC0mpa/cloud-doctor/model"
)

// Config holds all application configuration.
type Config struct {
	// GCP settings.
	ProjectID       string
	CredentialsFile string
	BillingAccount  string
	BillingDataset  string // BigQuery dataset holding the billing export.

	// Run defaults.
	Mode     model.InventoryMode
	Industry string
	Seed     int64

	// Gemini settings. An empty key disables reasoning, vision and the
	// generated report.
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// Execution settings.
	SimulatedDelay time.Duration

	// Persistence and telemetry.
	DataDir      string
	NATSURL      string
	MetricsAddr  string
	OTELEndpoint string
	OTELInsecure bool
	ServiceName  string

	// Operational settings.
	LogLevel  string
	LogFormat string // "console" or "json"
}

// Load reads configuration from the environment with defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ProjectID:       envStr("GCP_PROJECT_ID", ""),
		CredentialsFile: envStr("GOOGLE_APPLICATION_CREDENTIALS", ""),
		BillingAccount:  envStr("GCP_BILLING_ACCOUNT", ""),
		BillingDataset:  envStr("GCP_BILLING_DATASET", ""),
		Mode:            model.InventoryMode(strings.ToLower(envStr("CLOUD_DOCTOR_MODE", string(model.InventorySimulated)))),
		Industry:        envStr("CLOUD_DOCTOR_INDUSTRY", ""),
		Seed:            int64(envInt("CLOUD_DOCTOR_SEED", 0)),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:   envStr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:   envDuration("GEMINI_TIMEOUT", 60*time.Second),
		SimulatedDelay:  envDuration("CLOUD_DOCTOR_EXECUTION_DELAY", 800*time.Millisecond),
		DataDir:         envStr("CLOUD_DOCTOR_DATA_DIR", defaultDataDir()),
		NATSURL:         envStr("NATS_URL", ""),
		MetricsAddr:     envStr("METRICS_ADDR", ""),
		OTELEndpoint:    envStr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELInsecure:    envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
		ServiceName:     envStr("OTEL_SERVICE_NAME", "cloud-doctor"),
		LogLevel:        envStr("CLOUD_DOCTOR_LOG_LEVEL", "info"),
		LogFormat:       envStr("CLOUD_DOCTOR_LOG_FORMAT", "console"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for combinations that cannot work.
func (c Config) Validate() error {
	var errs []error
	switch c.Mode {
	case model.InventoryLive, model.InventoryFile, model.InventorySimulated:
	default:
		errs = append(errs, fmt.Errorf("config: unknown inventory mode %q", c.Mode))
	}
	if c.Mode == model.InventoryLive && c.ProjectID == "" {
		errs = append(errs, errors.New("config: GCP_PROJECT_ID is required in live mode"))
	}
	if c.SimulatedDelay < 0 {
		errs = append(errs, errors.New("config: CLOUD_DOCTOR_EXECUTION_DELAY must not be negative"))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("config: unknown log format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// HasGemini reports whether the Gemini collaborators are configured
func (c Config) HasGemini() bool {
	return c.GeminiAPIKey != ""
}

// HasBilling reports whether billed spend can be queried
func (c Config) HasBilling() bool {
	return c.ProjectID != "" && c.BillingDataset != "" && c.BillingAccount != ""
}

// Credentials returns the service account key referenced by
// CredentialsFile, or nil to use application default credentials.
func (c Config) Credentials() ([]byte, error) {
	if c.CredentialsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cloud-doctor"
	}
	return home + "/.cloud-doctor"
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
