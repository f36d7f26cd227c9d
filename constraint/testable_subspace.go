package constraint

import (
	"go.viam.com/aikido/statespace"
)

// TestableSubSpace is the conjunction of one Testable per subspace of a CompoundStateSpace.
type TestableSubSpace struct {
	space       *statespace.CompoundStateSpace
	constraints []Testable
}

// NewTestableSubSpace pairs constraint i with subspace i. The number of constraints must match the
// number of subspaces, and each constraint must be defined over exactly (by identity) its
// subspace.
func NewTestableSubSpace(space *statespace.CompoundStateSpace, constraints []Testable) (*TestableSubSpace, error) {
	if space == nil {
		return nil, statespace.NewInvalidConfigurationError("testable subspace needs a compound state space")
	}
	if len(constraints) != space.NumSubspaces() {
		return nil, statespace.NewInvalidConfigurationError(
			"mismatch between size of CompoundStateSpace and the number of constraints: %d != %d",
			space.NumSubspaces(), len(constraints))
	}
	for i, c := range constraints {
		if c == nil || c.StateSpace() != space.SubSpace(i) {
			return nil, statespace.NewInvalidConfigurationError("constraint %d is not defined over subspace %d", i, i)
		}
	}
	return &TestableSubSpace{space: space, constraints: append([]Testable(nil), constraints...)}, nil
}

// StateSpace returns the compound space.
func (ts *TestableSubSpace) StateSpace() statespace.StateSpace {
	return ts.space
}

// IsSatisfied returns false on the first subspace whose constraint rejects its sub-state.
func (ts *TestableSubSpace) IsSatisfied(state statespace.State) bool {
	for i, c := range ts.constraints {
		if !c.IsSatisfied(ts.space.SubState(state, i)) {
			return false
		}
	}
	return true
}
