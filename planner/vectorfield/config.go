package vectorfield

import (
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// Config controls the planner loop and the joint velocity optimization.
type Config struct {
	// Timestep is the Euler integration step in seconds, also used as the lookahead when
	// shrinking velocity bounds near joint limits.
	Timestep float64 `json:"timestep_sec"`
	// Padding is kept between joint positions and their limits.
	Padding float64 `json:"joint_limit_padding"`
	// OptimizationTolerance is the largest acceptable 1/2 |J*qd - twist|^2.
	OptimizationTolerance float64 `json:"optimization_tolerance"`
	// MaxDuration stops the loop once this much trajectory time has been generated.
	MaxDuration float64 `json:"max_duration_sec"`
}

// DefaultConfig returns a 100 Hz loop with a one minute budget.
func DefaultConfig() Config {
	return Config{
		Timestep:              0.01,
		Padding:               1e-3,
		OptimizationTolerance: 1e-3,
		MaxDuration:           60,
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.Timestep <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("timestep_sec must be positive, got %v", cfg.Timestep))
	}
	if cfg.Padding < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("joint_limit_padding must be non-negative, got %v", cfg.Padding))
	}
	if cfg.OptimizationTolerance <= 0 {
		return utils.NewConfigValidationError(path,
			errors.Errorf("optimization_tolerance must be positive, got %v", cfg.OptimizationTolerance))
	}
	if cfg.MaxDuration <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("max_duration_sec must be positive, got %v", cfg.MaxDuration))
	}
	return nil
}
