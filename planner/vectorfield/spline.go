package vectorfield

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/aikido/statespace"
	"go.viam.com/aikido/trajectory"
)

// cubic is the number of coefficients of a segment: position and velocity at both ends.
const cubic = 4

// ErrNonPositiveDuration is returned when two consecutive knots are not strictly increasing in
// time.
var ErrNonPositiveDuration = trajectory.ErrNonPositiveDuration

// ConvertToSpline fits one cubic per consecutive pair of the first cacheIndex knots. Each segment
// matches the position and velocity of both of its knots and is anchored at the exponential map
// of its start position in space.
//
// A cacheIndex of 0 or 1 yields a spline with no segments, which callers should treat as "no
// motion" rather than a failure.
func ConvertToSpline(knots []Knot, cacheIndex int, space statespace.StateSpace) (_ *trajectory.Spline, err error) {
	if cacheIndex < 0 || cacheIndex > len(knots) {
		return nil, errors.Errorf("cache index %d out of range [0, %d]", cacheIndex, len(knots))
	}
	startTime := 0.0
	if cacheIndex > 0 {
		startTime = knots[0].T
	}
	spline := trajectory.NewSpline(space, startTime)
	if cacheIndex <= 1 {
		return spline, nil
	}

	numDofs := space.Dimension()
	for i, knot := range knots[:cacheIndex] {
		if knot.Values == nil {
			return nil, errors.Errorf("knot %d has no values", i)
		}
		if rows, cols := knot.Values.Dims(); rows < 2 || cols != numDofs {
			return nil, errors.Errorf("knot %d has %dx%d values, expected at least 2x%d", i, rows, cols, numDofs)
		}
	}

	currState, err := space.AllocateState()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, space.FreeState(currState))
		if err != nil {
			err = multierr.Combine(err, spline.Release())
		}
	}()

	zeroPosition := make([]float64, numDofs)
	for i := 0; i < cacheIndex-1; i++ {
		segmentDuration := knots[i+1].T - knots[i].T
		if segmentDuration <= 0 {
			return nil, errors.Wrapf(ErrNonPositiveDuration, "knots %d and %d are %v apart", i, i+1, segmentDuration)
		}
		currentPosition := knots[i].Positions()
		nextPosition := knots[i+1].Positions()
		delta := make([]float64, numDofs)
		floats.SubTo(delta, nextPosition, currentPosition)

		problem, err := trajectory.NewSplineProblem([]float64{0, segmentDuration}, cubic, numDofs)
		if err != nil {
			return nil, err
		}
		err = multierr.Combine(
			problem.AddConstantConstraint(0, 0, zeroPosition),
			problem.AddConstantConstraint(0, 1, knots[i].Velocities()),
			problem.AddConstantConstraint(1, 0, delta),
			problem.AddConstantConstraint(1, 1, knots[i+1].Velocities()),
		)
		if err != nil {
			return nil, err
		}
		solution, err := problem.Fit()
		if err != nil {
			return nil, errors.Wrapf(err, "fitting segment %d", i)
		}

		space.ExpMap(currentPosition, currState)
		if err := spline.AddSegment(solution.Coefficients(0), segmentDuration, currState); err != nil {
			return nil, err
		}
	}
	return spline, nil
}
