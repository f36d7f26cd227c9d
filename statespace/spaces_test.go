package statespace

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
)

func TestRealVectorStateSpace(t *testing.T) {
	_, err := NewRealVectorStateSpace(-1)
	test.That(t, errors.Is(err, ErrInvalidConfiguration), test.ShouldBeTrue)

	rv, err := NewRealVectorStateSpace(3)
	test.That(t, err, test.ShouldBeNil)
	a, err := rv.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	b, err := rv.AllocateState()
	test.That(t, err, test.ShouldBeNil)

	test.That(t, rv.Values(a), test.ShouldResemble, []float64{0, 0, 0})
	rv.ExpMap([]float64{1, 2, 3}, a)
	rv.SetValues(b, []float64{-1, 0, 1})
	rv.Compose(a, b, b)
	test.That(t, rv.Values(b), test.ShouldResemble, []float64{0, 2, 4})

	tangent := make([]float64, 3)
	rv.LogMap(b, tangent)
	test.That(t, tangent, test.ShouldResemble, []float64{0, 2, 4})

	rv.CopyState(a, b)
	test.That(t, rv.Values(b), test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, func() { rv.SetValues(a, []float64{1}) }, test.ShouldPanic)

	so2 := NewSO2StateSpace()
	foreign, err := so2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, func() { rv.Compose(a, foreign, b) }, test.ShouldPanic)
	test.That(t, errors.Is(rv.FreeState(foreign), ErrForeignState), test.ShouldBeTrue)

	test.That(t, rv.FreeState(a), test.ShouldBeNil)
	test.That(t, rv.FreeState(b), test.ShouldBeNil)
	test.That(t, errors.Is(rv.FreeState(b), ErrStateReleased), test.ShouldBeTrue)
	test.That(t, rv.NumAllocatedStates(), test.ShouldEqual, int64(0))
}

func TestSO2StateSpace(t *testing.T) {
	so2 := NewSO2StateSpace()
	a, err := so2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	b, err := so2.AllocateState()
	test.That(t, err, test.ShouldBeNil)

	so2.ExpMap([]float64{3 * math.Pi}, a)
	test.That(t, so2.Angle(a), test.ShouldAlmostEqual, -math.Pi)
	so2.SetAngle(b, math.Pi/2)
	so2.Compose(a, b, a)
	test.That(t, so2.Angle(a), test.ShouldAlmostEqual, -math.Pi/2)

	tangent := []float64{0}
	so2.LogMap(a, tangent)
	test.That(t, tangent[0], test.ShouldAlmostEqual, -math.Pi/2)

	so2.CopyState(b, a)
	test.That(t, a.(*SO2State).Angle(), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, so2.Dimension(), test.ShouldEqual, 1)

	test.That(t, so2.FreeState(a), test.ShouldBeNil)
	test.That(t, so2.FreeState(b), test.ShouldBeNil)
	test.That(t, errors.Is(so2.FreeState(a), ErrStateReleased), test.ShouldBeTrue)
}

func TestSE2StateSpace(t *testing.T) {
	se2 := NewSE2StateSpace()
	a, err := se2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	b, err := se2.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, se2.FreeState(a), test.ShouldBeNil)
		test.That(t, se2.FreeState(b), test.ShouldBeNil)
	}()

	// A pure translation exponentiates to itself.
	se2.ExpMap([]float64{0, 2, -1}, a)
	x, y, theta := se2.Transform(a)
	test.That(t, x, test.ShouldAlmostEqual, 2)
	test.That(t, y, test.ShouldAlmostEqual, -1)
	test.That(t, theta, test.ShouldAlmostEqual, 0)

	// Moving forward at unit speed while turning a quarter circle ends on the unit-radius arc.
	se2.ExpMap([]float64{math.Pi / 2, math.Pi / 2, 0}, a)
	x, y, theta = se2.Transform(a)
	test.That(t, x, test.ShouldAlmostEqual, 1)
	test.That(t, y, test.ShouldAlmostEqual, 1)
	test.That(t, theta, test.ShouldAlmostEqual, math.Pi/2)

	for _, tangent := range [][]float64{{0.3, 1, -2}, {-2.5, 0.5, 0.5}, {1e-12, 3, 4}} {
		se2.ExpMap(tangent, b)
		recovered := make([]float64, 3)
		se2.LogMap(b, recovered)
		for i := range tangent {
			test.That(t, recovered[i], test.ShouldAlmostEqual, tangent[i])
		}
	}

	// Composition with the inverse of a rotation about the origin.
	se2.SetTransform(a, 1, 0, math.Pi/2)
	se2.SetTransform(b, 0, 0, -math.Pi/2)
	se2.Compose(a, b, a)
	x, y = a.(*SE2State).Translation()
	test.That(t, x, test.ShouldAlmostEqual, 1)
	test.That(t, y, test.ShouldAlmostEqual, 0)
	test.That(t, a.(*SE2State).Angle(), test.ShouldAlmostEqual, 0)
}
