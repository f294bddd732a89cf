// Package config holds the run configuration: worker slots, step
// budget, temperature, and the four move weights. Defaults come from
// the environment; CLI flags override them. Validation happens before
// any filesystem work.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/materialsmc/mcdrive/internal/mc"
)

// Config is the full run configuration.
type Config struct {
	Workers     int           `env:"MCDRIVE_WORKERS" envDefault:"4"`
	Steps       int           `env:"MCDRIVE_STEPS" envDefault:"1000"`
	Temperature float64       `env:"MCDRIVE_TEMP" envDefault:"0.001"`
	PSwapMetal  int           `env:"MCDRIVE_P_SWAP_METAL" envDefault:"70"`
	PSwapInter  int           `env:"MCDRIVE_P_SWAP_INTER" envDefault:"30"`
	PExchMetal  int           `env:"MCDRIVE_P_EXCH_METAL" envDefault:"0"`
	PExchInter  int           `env:"MCDRIVE_P_EXCH_INTER" envDefault:"0"`
	Seed        int64         `env:"MCDRIVE_SEED" envDefault:"0"`
	DBPath      string        `env:"MCDRIVE_DB" envDefault:"mcdrive.db"`
	Backoff     time.Duration `env:"MCDRIVE_BACKOFF" envDefault:"100ms"`
}

// FromEnv loads configuration defaults from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Weights returns the configured move weights.
func (c Config) Weights() mc.Weights {
	return mc.Weights{
		SwapMetal:            c.PSwapMetal,
		SwapInterstitial:     c.PSwapInter,
		ExchangeMetal:        c.PExchMetal,
		ExchangeInterstitial: c.PExchInter,
	}
}

// Validate rejects configurations that must fail at startup: fewer
// than one worker or step, non-positive temperature, zero-sum or
// negative move weights, non-positive backoff.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, have %d", c.Workers)
	}
	if c.Steps < 1 {
		return fmt.Errorf("config: steps must be at least 1, have %d", c.Steps)
	}
	if c.Temperature <= 0 {
		return fmt.Errorf("config: temperature must be strictly positive, have %g", c.Temperature)
	}
	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Backoff <= 0 {
		return fmt.Errorf("config: backoff must be positive, have %s", c.Backoff)
	}
	return nil
}
