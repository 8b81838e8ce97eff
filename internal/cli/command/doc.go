// Package command provides CLI command definitions for hallwatch-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: root command, global flags, profile loading
//   - halls.go: hall occupancy views
//   - events.go: entered/exited event log
//   - camera.go: camera registration
//   - alerts.go: capacity alert history
//   - system.go: health and readiness probes
//
// Commands parse flags, call the dashboard API and format the result.
package command
