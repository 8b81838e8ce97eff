// Package config provides the hallwatch-cli profile (~/.hallwatch/cli.yaml).
//
// The profile supplies defaults for the global flags. Flags and the
// HALLWATCH_SERVER variable take precedence.
package config
