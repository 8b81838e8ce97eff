package config

import (
	"maps"
	"slices"

	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// Sanitize returns a copy of the config with credentials masked.
//
// This is used for logging configuration without exposing secrets.
func Sanitize(cfg *DashboardConfig) *DashboardConfig {
	sanitized := *cfg
	sanitized.Backend.BaseURL = logger.RedactURL(cfg.Backend.BaseURL)
	sanitized.Alerts.Capacity = maps.Clone(cfg.Alerts.Capacity)
	sanitized.Server.HTTP.CORSAllowedOrigins = slices.Clone(cfg.Server.HTTP.CORSAllowedOrigins)
	return &sanitized
}
