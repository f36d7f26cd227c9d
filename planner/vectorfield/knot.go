// Package vectorfield plans joint trajectories by following an end-effector vector field and fits
// the resulting knots with cubic splines.
package vectorfield

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Knot is a timestamped sample of joint positions and velocities. Row 0 of Values holds
// positions, row 1 velocities and any further rows higher derivatives; there is one column per
// degree of freedom.
type Knot struct {
	T      float64
	Values *mat.Dense
}

// NewKnot returns a knot with position and velocity rows.
func NewKnot(t float64, positions, velocities []float64) (Knot, error) {
	if len(positions) != len(velocities) {
		return Knot{}, errors.Errorf("knot has %d positions but %d velocities", len(positions), len(velocities))
	}
	if len(positions) == 0 {
		return Knot{}, errors.New("knot has no degrees of freedom")
	}
	values := mat.NewDense(2, len(positions), nil)
	values.SetRow(0, positions)
	values.SetRow(1, velocities)
	return Knot{T: t, Values: values}, nil
}

// Positions returns a copy of row 0.
func (k Knot) Positions() []float64 {
	return mat.Row(nil, 0, k.Values)
}

// Velocities returns a copy of row 1.
func (k Knot) Velocities() []float64 {
	return mat.Row(nil, 1, k.Values)
}
