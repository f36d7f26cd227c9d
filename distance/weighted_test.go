package distance

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aikido/statespace"
)

type fixture struct {
	compound *statespace.CompoundStateSpace
	rv       *statespace.RealVectorStateSpace
	so2      *statespace.SO2StateSpace
	s1, s2   statespace.State
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	rv, err := statespace.NewRealVectorStateSpace(2)
	test.That(t, err, test.ShouldBeNil)
	so2 := statespace.NewSO2StateSpace()
	compound, err := statespace.NewCompoundStateSpace(rv, so2)
	test.That(t, err, test.ShouldBeNil)

	s1, err := compound.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	s2, err := compound.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	rv.SetValues(compound.SubState(s1, 0), []float64{0, 0})
	rv.SetValues(compound.SubState(s2, 0), []float64{3, 4})
	so2.SetAngle(compound.SubState(s1, 1), 3)
	so2.SetAngle(compound.SubState(s2, 1), -3)

	t.Cleanup(func() {
		test.That(t, compound.FreeState(s1), test.ShouldBeNil)
		test.That(t, compound.FreeState(s2), test.ShouldBeNil)
		test.That(t, rv.NumAllocatedStates(), test.ShouldEqual, int64(0))
	})
	return &fixture{compound: compound, rv: rv, so2: so2, s1: s1, s2: s2}
}

func TestWeightedMetricConstruction(t *testing.T) {
	f := newFixture(t)
	euclidean := NewEuclideanMetric(f.rv)
	angular := NewAngularMetric(f.so2)

	_, err := NewWeightedMetric(f.compound, []Metric{euclidean})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewWeightedMetricWithWeights(f.compound, []Metric{euclidean, angular}, []float64{1})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewWeightedMetricWithWeights(f.compound, []Metric{euclidean, angular}, []float64{1, -1})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewWeightedMetric(f.compound, []Metric{angular, euclidean})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewWeightedMetric(nil, nil)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	wm, err := NewWeightedMetric(f.compound, []Metric{euclidean, angular})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, wm.Weights(), test.ShouldResemble, []float64{1, 1})
	test.That(t, wm.StateSpace(), test.ShouldEqual, f.compound)
}

func TestWeightedMetricDistance(t *testing.T) {
	f := newFixture(t)
	euclidean := NewEuclideanMetric(f.rv)
	angular := NewAngularMetric(f.so2)
	first := euclidean.Distance(f.compound.SubState(f.s1, 0), f.compound.SubState(f.s2, 0))
	second := angular.Distance(f.compound.SubState(f.s1, 1), f.compound.SubState(f.s2, 1))
	test.That(t, first, test.ShouldAlmostEqual, 5)
	test.That(t, second, test.ShouldAlmostEqual, 2*math.Pi-6)

	unit, err := NewWeightedMetric(f.compound, []Metric{euclidean, angular})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, unit.Distance(f.s1, f.s2), test.ShouldAlmostEqual, first+second)
	test.That(t, unit.Distance(f.s2, f.s1), test.ShouldAlmostEqual, unit.Distance(f.s1, f.s2))
	test.That(t, unit.Distance(f.s1, f.s1), test.ShouldAlmostEqual, 0)

	weighted, err := NewWeightedMetricWithWeights(f.compound, []Metric{euclidean, angular}, []float64{2, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, weighted.Distance(f.s1, f.s2), test.ShouldEqual, 2*first)
}

func TestWeightedMetricInterpolate(t *testing.T) {
	f := newFixture(t)
	wm, err := NewMetric(f.compound)
	test.That(t, err, test.ShouldBeNil)

	out, err := f.compound.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	defer func() { test.That(t, f.compound.FreeState(out), test.ShouldBeNil) }()

	wm.Interpolate(f.s1, f.s2, 0.5, out)
	test.That(t, f.rv.Values(f.compound.SubState(out, 0)), test.ShouldResemble, []float64{1.5, 2})
	// The short way from 3 to -3 crosses pi.
	test.That(t, math.Abs(f.so2.Angle(f.compound.SubState(out, 1))), test.ShouldAlmostEqual, math.Pi)

	wm.Interpolate(f.s1, f.s2, 1, out)
	test.That(t, wm.Distance(out, f.s2), test.ShouldAlmostEqual, 0)

	// Interpolating a state with itself returns that state for every t.
	for _, tt := range []float64{0, 0.25, 0.5, 1} {
		wm.Interpolate(f.s1, f.s1, tt, out)
		test.That(t, wm.Distance(out, f.s1), test.ShouldAlmostEqual, 0)
	}

	// In place, reusing the destination as the source.
	f.compound.CopyState(f.s1, out)
	wm.Interpolate(out, f.s2, 0.5, out)
	test.That(t, f.rv.Values(f.compound.SubState(out, 0)), test.ShouldResemble, []float64{1.5, 2})
}

func TestNewMetric(t *testing.T) {
	se2 := statespace.NewSE2StateSpace()
	m, err := NewMetric(se2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.StateSpace(), test.ShouldEqual, se2)

	a, err := se2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	b, err := se2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	se2.SetTransform(a, 0, 0, 0)
	se2.SetTransform(b, 3, 4, -math.Pi/2)
	test.That(t, m.Distance(a, b), test.ShouldAlmostEqual, 5+math.Pi/2)

	m.Interpolate(a, b, 0.5, a)
	x, y, theta := se2.Transform(a)
	test.That(t, x, test.ShouldAlmostEqual, 1.5)
	test.That(t, y, test.ShouldAlmostEqual, 2)
	test.That(t, theta, test.ShouldAlmostEqual, -math.Pi/4)
	test.That(t, se2.FreeState(a), test.ShouldBeNil)
	test.That(t, se2.FreeState(b), test.ShouldBeNil)

	nested, err := statespace.NewCompoundStateSpace(se2, statespace.NewSO2StateSpace())
	test.That(t, err, test.ShouldBeNil)
	m, err = NewMetric(nested)
	test.That(t, err, test.ShouldBeNil)
	_, ok := m.(*WeightedMetric)
	test.That(t, ok, test.ShouldBeTrue)

	_, err = NewMetric(unknownSpace{se2})
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)
}

type unknownSpace struct {
	*statespace.SE2StateSpace
}
