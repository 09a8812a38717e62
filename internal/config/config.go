// Package config defines the global configuration structure for the
// SlopeScout service. Configuration is loaded once at process start and is
// immutable thereafter, following 12-Factor principles: values come from the
// OS environment, with a .env file as a local-development convenience.
//
// Any missing required value or invalid format fails the process immediately
// on startup.
package config

import (
	"time"

	"slopescout/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used in configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct. It is populated once during
// process initialization and never modified. Sub-components receive only the
// specific subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"slopescout-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"omitempty,oneof=debug info warn error"`

	// Domain configurations
	Server   ServerConfig
	Weather  WeatherConfig
	Crowd    CrowdConfig
	Insights InsightsConfig

	// Build metadata (injected via ldflags, not env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	// Comma-separated list of allowed CORS origins; "*" allows any.
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// WeatherConfig holds weather provider endpoints and fetch tuning.
type WeatherConfig struct {
	ForecastBaseURL string        `envconfig:"OPEN_METEO_FORECAST_URL" default:"https://api.open-meteo.com" validate:"url"`
	ArchiveBaseURL  string        `envconfig:"OPEN_METEO_ARCHIVE_URL" default:"https://archive-api.open-meteo.com" validate:"url"`
	Timeout         time.Duration `envconfig:"WEATHER_TIMEOUT" default:"15s"`
	// Archive years sampled for historical averaging.
	HistoricalYears int `envconfig:"HISTORICAL_YEARS" default:"5" validate:"min=1,max=10"`
}

// CrowdConfig holds crowd-estimation inputs.
type CrowdConfig struct {
	// Season key selecting the embedded holiday table, e.g. "2025-2026".
	HolidaySeason string `envconfig:"HOLIDAY_SEASON" default:"2025-2026"`
}

// InsightsConfig holds the generative-insights provider settings. When
// Endpoint is empty the service falls back to a deterministic stub.
type InsightsConfig struct {
	Endpoint string        `envconfig:"INSIGHTS_ENDPOINT" validate:"omitempty,url"`
	Model    string        `envconfig:"INSIGHTS_MODEL" default:"gpt-4o-mini"`
	APIKey   SecretString  `envconfig:"INSIGHTS_API_KEY"`
	Timeout  time.Duration `envconfig:"INSIGHTS_TIMEOUT" default:"30s"`
}

// BuildInfo carries version metadata injected at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
