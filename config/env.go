// Package config provides configuration loading for the fosgcfr CLI
// harness: environment variables for container/CI invocation, an HCL
// run-file for batch training, and a plain struct-literal form for
// programmatic callers. None of this is imported by the core packages
// (fosg, policy, infoset, regret, traversal, cfr); it exists purely to
// drive cmd/fosgcfr.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names read by FromEnv.
const (
	EnvGame        = "FOSGCFR_GAME"
	EnvIterations  = "FOSGCFR_ITERATIONS"
	EnvSeed        = "FOSGCFR_SEED"
	EnvAlternating = "FOSGCFR_ALTERNATING"
)

// RunConfig captures the parameters of one training run, whether read
// from the environment, an HCL run block, or built programmatically.
type RunConfig struct {
	Game        string
	Iterations  int
	Seed        int64
	Alternating bool
}

// Validate ensures the run parameters are safe to use, mirroring
// sdk/solver/config.go's TrainingConfig.Validate.
func (c RunConfig) Validate() error {
	if c.Game == "" {
		return fmt.Errorf("config: game is required")
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("config: iterations must be > 0, got %d", c.Iterations)
	}
	return nil
}

// FromEnv parses a RunConfig from FOSGCFR_* environment variables,
// matching sdk/config/config.go's FromEnv shape: a required field
// (game) plus optional fields with defaults (1000 iterations, seed 0,
// simultaneous updates).
func FromEnv() (*RunConfig, error) {
	cfg := &RunConfig{
		Iterations: 1000,
	}

	cfg.Game = os.Getenv(EnvGame)
	if cfg.Game == "" {
		return nil, fmt.Errorf("%s environment variable is required", EnvGame)
	}

	if v := os.Getenv(EnvIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvIterations, err)
		}
		cfg.Iterations = n
	}

	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	if v := os.Getenv(EnvAlternating); v != "" {
		alt, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvAlternating, err)
		}
		cfg.Alternating = alt
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
