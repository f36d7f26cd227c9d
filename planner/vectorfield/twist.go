package vectorfield

import (
	"context"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/optimizer"
	"go.viam.com/aikido/spatialmath"
	"go.viam.com/aikido/statespace"
)

var (
	// ErrNoConvergence is returned when the optimizer fails to find a joint velocity.
	ErrNoConvergence = errors.New("joint velocity optimization did not converge")
	// ErrToleranceExceeded is returned when the best joint velocity found tracks the desired twist
	// worse than the requested tolerance.
	ErrToleranceExceeded = errors.New("joint velocity optimization exceeded tolerance")
)

// MetaSkeleton is the view of a robot the planner needs: its joint state, its limits and the
// Jacobians of its bodies.
type MetaSkeleton interface {
	NumDofs() int
	Positions() []float64
	SetPositions(positions []float64) error
	PositionLowerLimits() []float64
	PositionUpperLimits() []float64
	VelocityLowerLimits() []float64
	VelocityUpperLimits() []float64
	// WorldJacobian returns the 6 x NumDofs Jacobian of body, angular rows first.
	WorldJacobian(body string) (*mat.Dense, error)
}

// DesiredTwistFunction is 1/2 |J*qd - twist|^2 as a function of the joint velocity qd.
type DesiredTwistFunction struct {
	twist    *mat.VecDense
	jacobian *mat.Dense
}

// NewDesiredTwistFunction returns the objective for tracking twist with the given Jacobian.
func NewDesiredTwistFunction(twist spatialmath.Twist, jacobian *mat.Dense) *DesiredTwistFunction {
	return &DesiredTwistFunction{
		twist:    mat.NewVecDense(spatialmath.TwistDimension, twist.Vector()),
		jacobian: jacobian,
	}
}

func (f *DesiredTwistFunction) residual(qd []float64) *mat.VecDense {
	var r mat.VecDense
	r.MulVec(f.jacobian, mat.NewVecDense(len(qd), qd))
	r.SubVec(&r, f.twist)
	return &r
}

// Eval returns the objective at qd.
func (f *DesiredTwistFunction) Eval(qd []float64) float64 {
	r := f.residual(qd)
	return 0.5 * mat.Dot(r, r)
}

// EvalGradient writes J^T (J*qd - twist) into grad.
func (f *DesiredTwistFunction) EvalGradient(qd, grad []float64) {
	mat.NewVecDense(len(grad), grad).MulVec(f.jacobian.T(), f.residual(qd))
}

// JointVelocityBounds returns the velocity box for the next control cycle. A joint whose
// position would cross its padded position limit within one timestep at its velocity limit has
// that side of the box set to zero.
func JointVelocityBounds(skeleton MetaSkeleton, timestep, padding float64) (lower, upper []float64) {
	positions := skeleton.Positions()
	positionLower := skeleton.PositionLowerLimits()
	positionUpper := skeleton.PositionUpperLimits()
	velocityLower := skeleton.VelocityLowerLimits()
	velocityUpper := skeleton.VelocityUpperLimits()

	numDofs := skeleton.NumDofs()
	lower = make([]float64, numDofs)
	upper = make([]float64, numDofs)
	for i := 0; i < numDofs; i++ {
		if positions[i] < positionLower[i]-timestep*velocityLower[i]+padding {
			lower[i] = 0
		} else {
			lower[i] = velocityLower[i]
		}

		if positions[i] > positionUpper[i]-timestep*velocityUpper[i]-padding {
			upper[i] = 0
		} else {
			upper[i] = velocityUpper[i]
		}
	}
	return lower, upper
}

// ComputeJointVelocityFromTwist finds the joint velocity within JointVelocityBounds that best
// reproduces desiredTwist at body. It returns ErrNoConvergence if the solver fails and
// ErrToleranceExceeded if the remaining objective is above optimizationTolerance; in both cases
// no velocity is returned.
func ComputeJointVelocityFromTwist(
	ctx context.Context,
	desiredTwist spatialmath.Twist,
	skeleton MetaSkeleton,
	body string,
	optimizationTolerance float64,
	timestep float64,
	padding float64,
	solver optimizer.Solver,
) ([]float64, error) {
	jacobian, err := skeleton.WorldJacobian(body)
	if err != nil {
		return nil, err
	}

	lower, upper := JointVelocityBounds(skeleton, timestep, padding)
	problem := &optimizer.Problem{
		Dimension:   skeleton.NumDofs(),
		LowerBounds: lower,
		UpperBounds: upper,
		Objective:   NewDesiredTwistFunction(desiredTwist, jacobian),
	}

	result, err := solver.Solve(ctx, problem)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, statespace.ErrInvalidConfiguration) {
			return nil, err
		}
		return nil, errors.Wrap(ErrNoConvergence, err.Error())
	}
	if result.Value > optimizationTolerance {
		return nil, errors.Wrapf(ErrToleranceExceeded, "objective %g > tolerance %g", result.Value, optimizationTolerance)
	}
	return result.Solution, nil
}
