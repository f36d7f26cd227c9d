package vectorfield

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"go.viam.com/aikido/spatialmath"
)

// correctionGain scales the twist that pulls the end effector back onto the line and back to its
// starting orientation.
const correctionGain = 1.0

// Kinematics gives the world pose of a body at some joint positions.
type Kinematics interface {
	Positions() []float64
	Transform(positions []float64, body string) (spatialmath.Pose, error)
}

// StraightLineConfig describes a straight end-effector motion.
type StraightLineConfig struct {
	Direction   r3.Vector `json:"direction"`
	MinDistance float64   `json:"min_distance"`
	MaxDistance float64   `json:"max_distance"`
	// Speed is the linear speed along Direction, in m/s.
	Speed             float64 `json:"speed"`
	PositionTolerance float64 `json:"position_tolerance"`
	AngularTolerance  float64 `json:"angular_tolerance"`
}

// Validate ensures all parts of the config are valid.
func (cfg *StraightLineConfig) Validate(path string) error {
	if cfg.Direction.Norm() == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "direction")
	}
	if cfg.MinDistance < 0 || cfg.MaxDistance < cfg.MinDistance {
		return utils.NewConfigValidationError(path,
			errors.Errorf("need 0 <= min_distance <= max_distance, got %v and %v", cfg.MinDistance, cfg.MaxDistance))
	}
	if cfg.Speed <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("speed must be positive, got %v", cfg.Speed))
	}
	if cfg.PositionTolerance <= 0 || cfg.AngularTolerance <= 0 {
		return utils.NewConfigValidationError(path, errors.New("tolerances must be positive"))
	}
	return nil
}

// StraightLineField moves a body along a straight line from where it starts, keeping its
// orientation. States between MinDistance and MaxDistance along the line are valid end points;
// the field terminates at MaxDistance or when the body strays from the line by more than the
// tolerances.
type StraightLineField struct {
	kinematics Kinematics
	body       string
	cfg        StraightLineConfig
	direction  r3.Vector
	start      spatialmath.Pose
}

// NewStraightLineField starts a line at the body's current pose.
func NewStraightLineField(kinematics Kinematics, body string, cfg StraightLineConfig) (*StraightLineField, error) {
	if err := cfg.Validate("straight_line"); err != nil {
		return nil, err
	}
	start, err := kinematics.Transform(kinematics.Positions(), body)
	if err != nil {
		return nil, err
	}
	return &StraightLineField{
		kinematics: kinematics,
		body:       body,
		cfg:        cfg,
		direction:  cfg.Direction.Normalize(),
		start:      start,
	}, nil
}

// Start returns the pose the line starts from.
func (f *StraightLineField) Start() spatialmath.Pose {
	return f.start
}

// progress returns how far the body has moved along the line, how far it is from the line, and
// the rotation between its current and starting orientation.
func (f *StraightLineField) progress(positions []float64) (along float64, lateral, rotation r3.Vector, err error) {
	pose, err := f.kinematics.Transform(positions, f.body)
	if err != nil {
		return 0, r3.Vector{}, r3.Vector{}, err
	}
	delta := spatialmath.PoseDelta(f.start, pose)
	along = delta.Linear.Dot(f.direction)
	lateral = delta.Linear.Sub(f.direction.Mul(along))
	return along, lateral, delta.Angular, nil
}

// DesiredTwist moves along the line at the configured speed and corrects drift.
func (f *StraightLineField) DesiredTwist(ctx context.Context, positions []float64) (spatialmath.Twist, error) {
	_, lateral, rotation, err := f.progress(positions)
	if err != nil {
		return spatialmath.Twist{}, err
	}
	return spatialmath.Twist{
		Angular: rotation.Mul(-correctionGain),
		Linear:  f.direction.Mul(f.cfg.Speed).Sub(lateral.Mul(correctionGain)),
	}, nil
}

// Status caches every state in [MinDistance, MaxDistance] and terminates past MaxDistance or off
// the line.
func (f *StraightLineField) Status(ctx context.Context, positions []float64) (Status, error) {
	along, lateral, rotation, err := f.progress(positions)
	if err != nil {
		return Terminate, err
	}
	if lateral.Norm() > f.cfg.PositionTolerance || rotation.Norm() > f.cfg.AngularTolerance {
		return Terminate, nil
	}
	switch {
	case along >= f.cfg.MaxDistance:
		return CacheAndTerminate, nil
	case along >= f.cfg.MinDistance:
		return CacheAndContinue, nil
	default:
		return Continue, nil
	}
}

func (f *StraightLineField) String() string {
	return fmt.Sprintf("StraightLineField{body: %s, direction: %v, distance: [%v, %v]}",
		f.body, f.direction, f.cfg.MinDistance, f.cfg.MaxDistance)
}
