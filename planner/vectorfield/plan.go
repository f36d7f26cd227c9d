package vectorfield

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/aikido/logging"
	"go.viam.com/aikido/optimizer"
	"go.viam.com/aikido/spatialmath"
	"go.viam.com/aikido/statespace"
	"go.viam.com/aikido/trajectory"
)

// Status is what a vector field reports about the current state.
type Status int

const (
	// Continue keeps integrating without marking the state as a valid end point.
	Continue Status = iota
	// CacheAndContinue marks the state as a valid end point and keeps integrating.
	CacheAndContinue
	// Terminate stops, discarding knots after the last cached one.
	Terminate
	// CacheAndTerminate marks the state as a valid end point and stops.
	CacheAndTerminate
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case CacheAndContinue:
		return "cache_and_continue"
	case Terminate:
		return "terminate"
	case CacheAndTerminate:
		return "cache_and_terminate"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) cache() bool {
	return s == CacheAndContinue || s == CacheAndTerminate
}

func (s Status) terminate() bool {
	return s == Terminate || s == CacheAndTerminate
}

// VectorField maps joint positions to a desired end-effector twist and a planning status.
type VectorField interface {
	DesiredTwist(ctx context.Context, positions []float64) (spatialmath.Twist, error)
	Status(ctx context.Context, positions []float64) (Status, error)
}

// Planner follows vector fields with a robot.
type Planner struct {
	skeleton MetaSkeleton
	space    statespace.StateSpace
	body     string
	cfg      Config
	solver   optimizer.Solver
	logger   logging.Logger
}

// NewPlanner returns a planner that drives body of skeleton. The state space must have one tangent
// dimension per degree of freedom; its exponential map turns joint positions into states.
func NewPlanner(
	skeleton MetaSkeleton,
	space statespace.StateSpace,
	body string,
	cfg Config,
	solver optimizer.Solver,
	logger logging.Logger,
) (*Planner, error) {
	if err := cfg.Validate("vectorfield"); err != nil {
		return nil, err
	}
	if space.Dimension() != skeleton.NumDofs() {
		return nil, statespace.NewInvalidConfigurationError(
			"state space has dimension %d but the skeleton has %d degrees of freedom", space.Dimension(), skeleton.NumDofs())
	}
	if solver == nil {
		return nil, statespace.NewInvalidConfigurationError("planner needs a solver")
	}
	return &Planner{
		skeleton: skeleton,
		space:    space,
		body:     body,
		cfg:      cfg,
		solver:   solver,
		logger:   logger,
	}, nil
}

// Plan Euler-integrates the joint velocities that track field, starting from the skeleton's
// current positions, and returns a spline through every knot up to the last cached one. The
// skeleton's positions are restored before returning.
//
// Integration stops when the field terminates, when no joint velocity can track the field, or
// once Config.MaxDuration of trajectory has been generated. The returned spline is empty if no
// state was ever cached.
func (p *Planner) Plan(ctx context.Context, field VectorField) (_ *trajectory.Spline, err error) {
	start := p.skeleton.Positions()
	defer func() {
		err = multierr.Combine(err, p.skeleton.SetPositions(start))
	}()

	var knots []Knot
	cacheIndex := 0
	positions := start
	for t := 0.0; ; t += p.cfg.Timestep {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		twist, err := field.DesiredTwist(ctx, positions)
		if err != nil {
			return nil, errors.Wrap(err, "evaluating vector field")
		}
		qd, err := ComputeJointVelocityFromTwist(
			ctx, twist, p.skeleton, p.body, p.cfg.OptimizationTolerance, p.cfg.Timestep, p.cfg.Padding, p.solver)
		if err != nil {
			if !errors.Is(err, ErrNoConvergence) && !errors.Is(err, ErrToleranceExceeded) {
				return nil, err
			}
			p.logger.CDebugw(ctx, "stopping, no joint velocity tracks the field", "t", t, "error", err)
			break
		}

		knot, err := NewKnot(t, positions, qd)
		if err != nil {
			return nil, err
		}
		knots = append(knots, knot)

		status, err := field.Status(ctx, positions)
		if err != nil {
			return nil, errors.Wrap(err, "evaluating vector field status")
		}
		if status.cache() {
			cacheIndex = len(knots)
		}
		if status.terminate() {
			p.logger.CDebugw(ctx, "vector field terminated", "t", t, "status", status.String())
			break
		}
		if t+p.cfg.Timestep > p.cfg.MaxDuration {
			p.logger.CDebugw(ctx, "reached max duration", "t", t, "max_duration", p.cfg.MaxDuration)
			break
		}

		next := make([]float64, len(positions))
		for i := range positions {
			next[i] = positions[i] + p.cfg.Timestep*qd[i]
		}
		if err := p.skeleton.SetPositions(next); err != nil {
			return nil, err
		}
		positions = next
	}

	p.logger.CDebugw(ctx, "vector field plan finished", "knots", len(knots), "cache_index", cacheIndex)
	return ConvertToSpline(knots, cacheIndex, p.space)
}
