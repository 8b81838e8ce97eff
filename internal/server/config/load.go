package config

import (
	"fmt"

	"github.com/yndnr/hallwatch-go/internal/infra/confloader"
)

// Load builds the configuration from defaults, the optional file at path,
// HALLWATCH_* environment variables and flag overrides, then verifies it.
func Load(path string, overrides map[string]any) (*DashboardConfig, error) {
	cfg := Default()

	opts := []confloader.Option{confloader.WithEnvKeys(EnvKeys()...)}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal overrides: %w", err)
		}
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
