package distance

import (
	"gonum.org/v1/gonum/floats"

	"go.viam.com/aikido/statespace"
)

// EuclideanMetric is the L2 distance on R^n with straight-line interpolation.
type EuclideanMetric struct {
	space *statespace.RealVectorStateSpace
}

// NewEuclideanMetric returns the Euclidean metric of space.
func NewEuclideanMetric(space *statespace.RealVectorStateSpace) *EuclideanMetric {
	return &EuclideanMetric{space: space}
}

// StateSpace returns the R^n space.
func (em *EuclideanMetric) StateSpace() statespace.StateSpace {
	return em.space
}

// Distance returns the L2 norm of the difference of the two vectors.
func (em *EuclideanMetric) Distance(state1, state2 statespace.State) float64 {
	return floats.Distance(em.space.Values(state1), em.space.Values(state2), 2)
}

// Interpolate writes from + t*(to - from) into out.
func (em *EuclideanMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) {
	a, b, dst := em.space.Values(from), em.space.Values(to), em.space.Values(out)
	for i := range dst {
		dst[i] = a[i] + t*(b[i]-a[i])
	}
}
