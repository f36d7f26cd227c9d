package statespace

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// RealVectorStateSpace is the Euclidean space R^n under addition.
type RealVectorStateSpace struct {
	allocCounter
	dimension int
}

// RealVectorState is a point in R^n.
type RealVectorState struct {
	owner    *RealVectorStateSpace
	values   []float64
	released bool
}

// NewRealVectorStateSpace returns R^dimension.
func NewRealVectorStateSpace(dimension int) (*RealVectorStateSpace, error) {
	if dimension < 0 {
		return nil, NewInvalidConfigurationError("real vector space dimension must be non-negative, got %d", dimension)
	}
	return &RealVectorStateSpace{dimension: dimension}, nil
}

// Owner returns the space that allocated the state.
func (s *RealVectorState) Owner() StateSpace {
	return s.owner
}

// Values returns a view of the vector. Writes through the view modify the state.
func (s *RealVectorState) Values() []float64 {
	return s.values
}

// SetValues copies values into the state.
func (s *RealVectorState) SetValues(values []float64) {
	checkTangent(values, len(s.values))
	copy(s.values, values)
}

// Dimension returns n.
func (rv *RealVectorStateSpace) Dimension() int {
	return rv.dimension
}

// AllocateState returns the zero vector.
func (rv *RealVectorStateSpace) AllocateState() (State, error) {
	rv.live.Inc()
	return &RealVectorState{owner: rv, values: make([]float64, rv.dimension)}, nil
}

// FreeState releases a state allocated by this space.
func (rv *RealVectorStateSpace) FreeState(state State) error {
	s, ok := state.(*RealVectorState)
	if !ok || s.owner != rv {
		return errors.Wrapf(ErrForeignState, "cannot free %T", state)
	}
	if s.released {
		return ErrStateReleased
	}
	s.released = true
	s.values = nil
	rv.live.Dec()
	return nil
}

// Compose adds the two vectors.
func (rv *RealVectorStateSpace) Compose(state1, state2, out State) {
	a, b, dst := rv.cast(state1), rv.cast(state2), rv.cast(out)
	floats.AddTo(dst.values, a.values, b.values)
}

// CopyState copies the vector of source into destination.
func (rv *RealVectorStateSpace) CopyState(source, destination State) {
	copy(rv.cast(destination).values, rv.cast(source).values)
}

// ExpMap is the identity on R^n.
func (rv *RealVectorStateSpace) ExpMap(tangent []float64, out State) {
	checkTangent(tangent, rv.dimension)
	copy(rv.cast(out).values, tangent)
}

// LogMap is the identity on R^n.
func (rv *RealVectorStateSpace) LogMap(state State, tangent []float64) {
	checkTangent(tangent, rv.dimension)
	copy(tangent, rv.cast(state).values)
}

// Values is a typed accessor returning the vector view of a state of this space.
func (rv *RealVectorStateSpace) Values(state State) []float64 {
	return rv.cast(state).values
}

// SetValues is a typed setter for a state of this space.
func (rv *RealVectorStateSpace) SetValues(state State, values []float64) {
	rv.cast(state).SetValues(values)
}

func (rv *RealVectorStateSpace) String() string {
	return fmt.Sprintf("R%d", rv.dimension)
}

func (rv *RealVectorStateSpace) cast(state State) *RealVectorState {
	s, ok := state.(*RealVectorState)
	if !ok || s.owner != rv {
		foreignStatePanic(rv.String(), state)
	}
	return s
}
