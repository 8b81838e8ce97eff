package config

import "time"

// Defaults for a missing profile.
const (
	DefaultServer  = "http://127.0.0.1:5090"
	DefaultOutput  = "table"
	DefaultTimeout = 30 * time.Second
)

// CLIConfig is the configuration for hallwatch-cli.
type CLIConfig struct {
	DefaultServer string        `yaml:"default_server"`
	DefaultOutput string        `yaml:"default_output"` // table, json, yaml
	Timeout       time.Duration `yaml:"timeout"`

	// DefaultHall is used by camera commands when --hall is not given.
	DefaultHall string `yaml:"default_hall,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: DefaultServer,
		DefaultOutput: DefaultOutput,
		Timeout:       DefaultTimeout,
	}
}
