package statespace

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// CompoundStateSpace is the Cartesian product of other state spaces. Subspaces are shared: the
// same subspace value may appear in several compound spaces, constraints and metrics.
type CompoundStateSpace struct {
	allocCounter
	subspaces []StateSpace
	offsets   []int
	dimension int
}

// CompoundState is a tuple of states where the i-th state belongs to the i-th subspace. It can only
// be created and destroyed through its CompoundStateSpace, since only the subspaces know how to
// release the states it holds.
type CompoundState struct {
	owner    *CompoundStateSpace
	states   []State
	released bool
}

// NewCompoundStateSpace constructs the Cartesian product of the given subspaces.
func NewCompoundStateSpace(subspaces ...StateSpace) (*CompoundStateSpace, error) {
	offsets := make([]int, len(subspaces))
	dimension := 0
	for i, subspace := range subspaces {
		if subspace == nil {
			return nil, NewInvalidConfigurationError("subspace %d is nil", i)
		}
		offsets[i] = dimension
		dimension += subspace.Dimension()
	}
	return &CompoundStateSpace{
		subspaces: append([]StateSpace(nil), subspaces...),
		offsets:   offsets,
		dimension: dimension,
	}, nil
}

// Owner returns the space that allocated the state.
func (s *CompoundState) Owner() StateSpace {
	return s.owner
}

// NumStates returns the number of sub-states, which always equals the number of subspaces.
func (s *CompoundState) NumStates() int {
	return len(s.states)
}

// State returns the sub-state belonging to subspace index.
func (s *CompoundState) State(index int) State {
	return s.states[index]
}

// States returns the sub-states in subspace order.
func (s *CompoundState) States() []State {
	return append([]State(nil), s.states...)
}

// NumSubspaces returns the number of subspaces.
func (c *CompoundStateSpace) NumSubspaces() int {
	return len(c.subspaces)
}

// SubSpace returns the subspace at index.
func (c *CompoundStateSpace) SubSpace(index int) StateSpace {
	return c.subspaces[index]
}

// SubSpaces returns the subspaces in order.
func (c *CompoundStateSpace) SubSpaces() []StateSpace {
	return append([]StateSpace(nil), c.subspaces...)
}

// SubSpaceAs returns the subspace at index as a concrete space type.
func SubSpaceAs[T StateSpace](c *CompoundStateSpace, index int) (T, bool) {
	space, ok := c.subspaces[index].(T)
	return space, ok
}

// SubState returns the sub-state of state that belongs to subspace index.
func (c *CompoundStateSpace) SubState(state State, index int) State {
	return c.cast(state).states[index]
}

// Dimension is the sum of the subspace dimensions.
func (c *CompoundStateSpace) Dimension() int {
	return c.dimension
}

// AllocateState allocates one sub-state from every subspace. If any subspace fails, the sub-states
// allocated so far are released before the error is returned.
func (c *CompoundStateSpace) AllocateState() (State, error) {
	states := make([]State, 0, len(c.subspaces))
	for i, subspace := range c.subspaces {
		subState, err := subspace.AllocateState()
		if err != nil {
			for j := len(states) - 1; j >= 0; j-- {
				err = multierr.Append(err, c.subspaces[j].FreeState(states[j]))
			}
			return nil, errors.Wrapf(err, "cannot allocate state for subspace %d", i)
		}
		states = append(states, subState)
	}
	c.live.Inc()
	return &CompoundState{owner: c, states: states}, nil
}

// FreeState releases every sub-state through its subspace, then the compound state itself.
func (c *CompoundStateSpace) FreeState(state State) error {
	s, ok := state.(*CompoundState)
	if !ok || s.owner != c {
		return errors.Wrapf(ErrForeignState, "cannot free %T", state)
	}
	if s.released {
		return ErrStateReleased
	}
	var err error
	for i, subState := range s.states {
		err = multierr.Append(err, c.subspaces[i].FreeState(subState))
	}
	s.released = true
	s.states = nil
	c.live.Dec()
	return err
}

// Compose composes every pair of sub-states with its subspace.
func (c *CompoundStateSpace) Compose(state1, state2, out State) {
	a, b, dst := c.cast(state1), c.cast(state2), c.cast(out)
	for i, subspace := range c.subspaces {
		subspace.Compose(a.states[i], b.states[i], dst.states[i])
	}
}

// CopyState copies every sub-state of source into destination.
func (c *CompoundStateSpace) CopyState(source, destination State) {
	src, dst := c.cast(source), c.cast(destination)
	for i, subspace := range c.subspaces {
		subspace.CopyState(src.states[i], dst.states[i])
	}
}

// ExpMap splits tangent by subspace dimension and applies each subspace's exponential.
func (c *CompoundStateSpace) ExpMap(tangent []float64, out State) {
	checkTangent(tangent, c.dimension)
	dst := c.cast(out)
	for i, subspace := range c.subspaces {
		subspace.ExpMap(c.segment(tangent, i), dst.states[i])
	}
}

// LogMap concatenates the logarithms of every sub-state.
func (c *CompoundStateSpace) LogMap(state State, tangent []float64) {
	checkTangent(tangent, c.dimension)
	src := c.cast(state)
	for i, subspace := range c.subspaces {
		subspace.LogMap(src.states[i], c.segment(tangent, i))
	}
}

func (c *CompoundStateSpace) segment(tangent []float64, index int) []float64 {
	start := c.offsets[index]
	return tangent[start : start+c.subspaces[index].Dimension()]
}

func (c *CompoundStateSpace) String() string {
	names := make([]string, 0, len(c.subspaces))
	for _, subspace := range c.subspaces {
		names = append(names, fmt.Sprint(subspace))
	}
	return "Compound(" + strings.Join(names, " x ") + ")"
}

func (c *CompoundStateSpace) cast(state State) *CompoundState {
	s, ok := state.(*CompoundState)
	if !ok || s.owner != c {
		foreignStatePanic(c.String(), state)
	}
	return s
}
