package constraint

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aikido/statespace"
)

// countingTestable records how often it is evaluated and returns a fixed answer.
type countingTestable struct {
	space     statespace.StateSpace
	satisfied bool
	calls     int
}

func (c *countingTestable) StateSpace() statespace.StateSpace {
	return c.space
}

func (c *countingTestable) IsSatisfied(statespace.State) bool {
	c.calls++
	return c.satisfied
}

func newTwoSubspaces(t *testing.T) (*statespace.CompoundStateSpace, *statespace.RealVectorStateSpace, *statespace.SO2StateSpace) {
	t.Helper()
	rv, err := statespace.NewRealVectorStateSpace(2)
	test.That(t, err, test.ShouldBeNil)
	so2 := statespace.NewSO2StateSpace()
	compound, err := statespace.NewCompoundStateSpace(rv, so2)
	test.That(t, err, test.ShouldBeNil)
	return compound, rv, so2
}

func TestTestableSubSpaceConstruction(t *testing.T) {
	compound, rv, so2 := newTwoSubspaces(t)

	_, err := NewTestableSubSpace(compound, []Testable{NewSatisfied(rv)})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewTestableSubSpace(compound, []Testable{NewSatisfied(so2), NewSatisfied(rv)})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	// A structurally identical but distinct subspace is rejected.
	otherRv, err := statespace.NewRealVectorStateSpace(2)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewTestableSubSpace(compound, []Testable{NewSatisfied(otherRv), NewSatisfied(so2)})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewTestableSubSpace(compound, []Testable{NewSatisfied(rv), nil})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewTestableSubSpace(nil, nil)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	ts, err := NewTestableSubSpace(compound, []Testable{NewSatisfied(rv), NewSatisfied(so2)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ts.StateSpace(), test.ShouldEqual, compound)
}

func TestTestableSubSpaceIsConjunction(t *testing.T) {
	compound, rv, so2 := newTwoSubspaces(t)
	state, err := compound.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	defer func() { test.That(t, compound.FreeState(state), test.ShouldBeNil) }()

	for _, tc := range []struct {
		first, second bool
		secondCalls   int
	}{
		{true, true, 1},
		{true, false, 1},
		{false, true, 0},
		{false, false, 0},
	} {
		first := &countingTestable{space: rv, satisfied: tc.first}
		second := &countingTestable{space: so2, satisfied: tc.second}
		ts, err := NewTestableSubSpace(compound, []Testable{first, second})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, ts.IsSatisfied(state), test.ShouldEqual, tc.first && tc.second)
		test.That(t, first.calls, test.ShouldEqual, 1)
		test.That(t, second.calls, test.ShouldEqual, tc.secondCalls)
	}
}

func TestTestableSubSpaceWithBoxes(t *testing.T) {
	rv, err := statespace.NewRealVectorStateSpace(2)
	test.That(t, err, test.ShouldBeNil)
	se2 := statespace.NewSE2StateSpace()
	compound, err := statespace.NewCompoundStateSpace(rv, se2)
	test.That(t, err, test.ShouldBeNil)

	box, err := NewRnBoxConstraint(rv, []float64{-1, -1}, []float64{1, 1}, nil)
	test.That(t, err, test.ShouldBeNil)
	//nolint:gosec
	se2Box, err := NewSE2BoxConstraint(se2, rand.New(rand.NewSource(3)), [2]float64{0, 0}, [2]float64{2, 2})
	test.That(t, err, test.ShouldBeNil)
	ts, err := NewTestableSubSpace(compound, []Testable{box, se2Box})
	test.That(t, err, test.ShouldBeNil)

	state, err := compound.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	defer func() { test.That(t, compound.FreeState(state), test.ShouldBeNil) }()

	rv.SetValues(compound.SubState(state, 0), []float64{0.5, -0.5})
	se2.SetTransform(compound.SubState(state, 1), 1, 1, math.Pi/3)
	test.That(t, ts.IsSatisfied(state), test.ShouldBeTrue)

	se2.SetTransform(compound.SubState(state, 1), 3, 1, 0)
	test.That(t, ts.IsSatisfied(state), test.ShouldBeFalse)

	se2.SetTransform(compound.SubState(state, 1), 1, 1, 0)
	rv.SetValues(compound.SubState(state, 0), []float64{0.5, -1.5})
	test.That(t, ts.IsSatisfied(state), test.ShouldBeFalse)
}
