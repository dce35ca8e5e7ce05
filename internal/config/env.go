package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// FromEnv loads configuration from environment variables.
// Starts from the preset selected by FOCUSQUEST_DIFFICULTY (if any),
// then applies individual variable overrides.
func FromEnv() (Config, error) {
	cfg := Default()

	switch os.Getenv("FOCUSQUEST_DIFFICULTY") {
	case "", "default":
	case "casual":
		cfg = Casual()
	case "hard":
		cfg = Hard()
	default:
		return cfg, fmt.Errorf("unknown difficulty %q", os.Getenv("FOCUSQUEST_DIFFICULTY"))
	}

	if err := env.Parse(&cfg.Formulas); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := env.Parse(&cfg.Storage); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
