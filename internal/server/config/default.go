package config

import "time"

// Default configuration values.
const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultBackendTimeout = 10 * time.Second
	DefaultNamespace      = "/video"
	DefaultRedialInterval = 2 * time.Second
	DefaultPullInterval   = time.Second

	DefaultHall         = "default"
	DefaultUpdateBuffer = 64
	DefaultPolicy       = "per_unit"
	DefaultMaxBurst     = 10000
	DefaultAlertHistory = 1000

	DefaultHTTPAddr        = "127.0.0.1:5090"
	DefaultShutdownTimeout = 10 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default dashboard configuration.
func Default() *DashboardConfig {
	return &DashboardConfig{
		Backend: BackendSection{
			BaseURL: DefaultBaseURL,
			Timeout: DefaultBackendTimeout,
			Push: PushConfig{
				Enabled:        true,
				Namespace:      DefaultNamespace,
				RedialInterval: DefaultRedialInterval,
			},
			Pull: PullConfig{
				Interval: DefaultPullInterval,
			},
		},
		Dashboard: DashboardSection{
			DefaultHall:  DefaultHall,
			UpdateBuffer: DefaultUpdateBuffer,
		},
		Translator: TranslatorSection{
			Policy:   DefaultPolicy,
			MaxBurst: DefaultMaxBurst,
		},
		Alerts: AlertsSection{
			Capacity: map[string]int64{},
			History:  DefaultAlertHistory,
		},
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ShutdownTimeout: DefaultShutdownTimeout,
			},
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
