package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/yndnr/hallwatch-go/internal/core/domain"
	"github.com/yndnr/hallwatch-go/internal/core/service"
	"github.com/yndnr/hallwatch-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *DashboardConfig) error {
	if err := verifyBackend(&cfg.Backend); err != nil {
		return err
	}
	if err := verifyDashboard(&cfg.Dashboard); err != nil {
		return err
	}
	if _, err := service.ParsePolicy(cfg.Translator.Policy); err != nil {
		return fmt.Errorf("translator.policy: %w", err)
	}
	if cfg.Translator.MaxBurst < 0 {
		return errors.New("translator.max_burst must not be negative")
	}
	if err := VerifyAlerts(&cfg.Alerts); err != nil {
		return err
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyBackend(cfg *BackendSection) error {
	if cfg.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	raw := cfg.BaseURL
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("backend.base_url: missing host")
	}

	if cfg.Timeout <= 0 {
		return errors.New("backend.timeout must be positive")
	}
	if cfg.Pull.Interval <= 0 {
		return errors.New("backend.pull.interval must be positive")
	}
	if cfg.Push.Enabled {
		if !strings.HasPrefix(cfg.Push.Namespace, "/") {
			return errors.New("backend.push.namespace must start with /")
		}
		if cfg.Push.RedialInterval <= 0 {
			return errors.New("backend.push.redial_interval must be positive")
		}
	}
	return nil
}

func verifyDashboard(cfg *DashboardSection) error {
	if strings.TrimSpace(cfg.DefaultHall) == "" {
		return errors.New("dashboard.default_hall is required")
	}
	if err := domain.ValidateHallID(cfg.DefaultHall); err != nil {
		return fmt.Errorf("dashboard.default_hall: %w", err)
	}
	if cfg.UpdateBuffer < 0 {
		return errors.New("dashboard.update_buffer must not be negative")
	}
	return nil
}

// VerifyAlerts validates alert capacities. It is also used on hot reload.
func VerifyAlerts(cfg *AlertsSection) error {
	if cfg.DefaultCapacity < 0 {
		return errors.New("alerts.default_capacity must not be negative")
	}
	for hall, n := range cfg.Capacity {
		if err := domain.ValidateHallID(hall); err != nil {
			return fmt.Errorf("alerts.capacity: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("alerts.capacity.%s must not be negative", hall)
		}
	}
	if cfg.History < 0 {
		return errors.New("alerts.history must not be negative")
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if cfg.HTTP.ShutdownTimeout < 0 {
		return errors.New("server.http.shutdown_timeout must not be negative")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	for _, o := range cfg.HTTP.CORSAllowedOrigins {
		if strings.TrimSpace(o) == "" {
			return errors.New("server.http.cors_allowed_origins contains an empty origin")
		}
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}
