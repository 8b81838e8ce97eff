package config

import "time"

// DashboardConfig is the root configuration for hallwatch.
type DashboardConfig struct {
	Backend    BackendSection    `koanf:"backend"`
	Dashboard  DashboardSection  `koanf:"dashboard"`
	Translator TranslatorSection `koanf:"translator"`
	Alerts     AlertsSection     `koanf:"alerts"`
	Server     ServerSection     `koanf:"server"`
	Log        LogSection        `koanf:"log"`
}

// BackendSection configures the analytics backend connection.
type BackendSection struct {
	// BaseURL is the backend REST and Socket.IO base URL.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds every REST request.
	Timeout time.Duration `koanf:"timeout"`

	// MultiHall selects GET /halls instead of GET /count.
	MultiHall bool `koanf:"multi_hall"`

	Push PushConfig `koanf:"push"`
	Pull PullConfig `koanf:"pull"`
}

// PushConfig configures the Socket.IO subscription.
type PushConfig struct {
	Enabled        bool          `koanf:"enabled"`
	Namespace      string        `koanf:"namespace"`
	RedialInterval time.Duration `koanf:"redial_interval"`
}

// PullConfig configures the polling fallback.
type PullConfig struct {
	Interval time.Duration `koanf:"interval"`
}

// DashboardSection configures the reconciler.
type DashboardSection struct {
	// DefaultHall names the hall of single-hall deployments.
	DefaultHall string `koanf:"default_hall"`

	// UpdateBuffer is the capacity of the update stream.
	UpdateBuffer int `koanf:"update_buffer"`
}

// TranslatorSection configures event derivation.
type TranslatorSection struct {
	// Policy is per_unit or aggregate.
	Policy string `koanf:"policy"`

	// MaxBurst caps per_unit expansion of a single jump. Larger jumps
	// yield one aggregate event. 0 disables the cap.
	MaxBurst int64 `koanf:"max_burst"`
}

// AlertsSection configures occupancy alerts. A capacity of 0 disables
// alerts for the hall.
type AlertsSection struct {
	DefaultCapacity int64            `koanf:"default_capacity"`
	Capacity        map[string]int64 `koanf:"capacity"`
	History         int              `koanf:"history"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSAllowedOrigins enables CORS for the listed origins; "*" allows any.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RateLimit is the per-client request rate in requests per second.
	// 0 disables limiting.
	RateLimit float64 `koanf:"rate_limit"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// EnvKeys lists every scalar configuration key, used to map environment
// variables onto keys that contain underscores.
func EnvKeys() []string {
	return []string{
		"backend.base_url",
		"backend.timeout",
		"backend.multi_hall",
		"backend.push.enabled",
		"backend.push.namespace",
		"backend.push.redial_interval",
		"backend.pull.interval",
		"dashboard.default_hall",
		"dashboard.update_buffer",
		"translator.policy",
		"translator.max_burst",
		"alerts.default_capacity",
		"alerts.history",
		"server.http.addr",
		"server.http.shutdown_timeout",
		"server.http.rate_limit",
		"log.level",
		"log.format",
	}
}
