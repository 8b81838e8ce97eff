// Package config provides the dashboard configuration for HallWatch.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: DashboardConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (addresses, intervals, capacities)
//   - sanitize.go: Log sanitization (hide credentials in URLs)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags.
package config
