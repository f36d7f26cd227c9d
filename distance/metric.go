// Package distance provides distance metrics and interpolation over state spaces.
package distance

import (
	"github.com/pkg/errors"

	"go.viam.com/aikido/statespace"
)

// Metric measures distances between, and interpolates between, states of one space.
type Metric interface {
	StateSpace() statespace.StateSpace
	// Distance returns the distance between two states of StateSpace().
	Distance(state1, state2 statespace.State) float64
	// Interpolate writes the state a fraction t in [0, 1] of the way from `from` to `to` into out.
	// out may be the same state as from or to.
	Interpolate(from, to statespace.State, t float64, out statespace.State)
}

// NewMetric returns the default metric for a space: Euclidean for R^n, shortest arc for SO(2),
// unit-weighted translation plus rotation for SE(2), and a unit-weighted sum of the defaults of
// every subspace for compound spaces.
func NewMetric(space statespace.StateSpace) (Metric, error) {
	switch s := space.(type) {
	case *statespace.RealVectorStateSpace:
		return NewEuclideanMetric(s), nil
	case *statespace.SO2StateSpace:
		return NewAngularMetric(s), nil
	case *statespace.SE2StateSpace:
		return NewSE2Metric(s, 1), nil
	case *statespace.CompoundStateSpace:
		metrics := make([]Metric, 0, s.NumSubspaces())
		for i := 0; i < s.NumSubspaces(); i++ {
			m, err := NewMetric(s.SubSpace(i))
			if err != nil {
				return nil, errors.Wrapf(err, "subspace %d", i)
			}
			metrics = append(metrics, m)
		}
		return NewWeightedMetric(s, metrics)
	default:
		return nil, statespace.NewInvalidConfigurationError("no default metric for state space %T", space)
	}
}
