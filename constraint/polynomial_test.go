package constraint

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aikido/statespace"
)

func TestPolynomialConstraint(t *testing.T) {
	pc, err := NewPolynomialConstraint([]float64{0, 0, 1}, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.ConstraintDimension(), test.ShouldEqual, 1)
	test.That(t, pc.ConstraintTypes(), test.ShouldResemble, []Type{Equality})
	test.That(t, pc.StateSpace().Dimension(), test.ShouldEqual, 1)

	space := pc.StateSpace()
	state, err := space.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	defer func() { test.That(t, space.FreeState(state), test.ShouldBeNil) }()
	space.ExpMap([]float64{3}, state)

	value := pc.Value(state)
	test.That(t, value, test.ShouldResemble, []float64{9})
	jacobian := pc.Jacobian(state)
	rows, cols := jacobian.Dims()
	test.That(t, rows, test.ShouldEqual, 1)
	test.That(t, cols, test.ShouldEqual, 1)
	test.That(t, jacobian.At(0, 0), test.ShouldEqual, 6.)

	both, bothJacobian := pc.ValueAndJacobian(state)
	test.That(t, both, test.ShouldResemble, value)
	test.That(t, bothJacobian.At(0, 0), test.ShouldEqual, jacobian.At(0, 0))
}

func TestPolynomialConstraintGeneral(t *testing.T) {
	// 2 - 3x + 0.5x^3 at x = -2: 2 + 6 - 4 = 4, derivative -3 + 1.5*4 = 3.
	space, err := statespace.NewRealVectorStateSpace(1)
	test.That(t, err, test.ShouldBeNil)
	pc, err := NewPolynomialConstraint([]float64{2, -3, 0, 0.5}, space)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.StateSpace(), test.ShouldEqual, space)

	state, err := space.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	space.SetValues(state, []float64{-2})
	value, jacobian := pc.ValueAndJacobian(state)
	test.That(t, value[0], test.ShouldAlmostEqual, 4)
	test.That(t, jacobian.At(0, 0), test.ShouldAlmostEqual, 3)
	test.That(t, space.FreeState(state), test.ShouldBeNil)
}

func TestPolynomialConstraintConstant(t *testing.T) {
	pc, err := NewPolynomialConstraint([]float64{5}, nil)
	test.That(t, err, test.ShouldBeNil)
	space := pc.StateSpace()
	state, err := space.AllocateState()
	test.That(t, err, test.ShouldBeNil)
	space.ExpMap([]float64{42}, state)
	test.That(t, pc.Value(state)[0], test.ShouldEqual, 5.)
	test.That(t, pc.Jacobian(state).At(0, 0), test.ShouldEqual, 0.)
	test.That(t, space.FreeState(state), test.ShouldBeNil)
}

func TestPolynomialConstraintInvalid(t *testing.T) {
	_, err := NewPolynomialConstraint(nil, nil)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewPolynomialConstraint([]float64{1, 2, 0}, nil)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	r2, err := statespace.NewRealVectorStateSpace(2)
	test.That(t, err, test.ShouldBeNil)
	_, err = NewPolynomialConstraint([]float64{1, 2}, r2)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)
}
