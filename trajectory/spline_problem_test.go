package trajectory

import (
	"errors"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aikido/statespace"
)

func TestSplineProblemSingleCubic(t *testing.T) {
	problem, err := NewSplineProblem([]float64{0, 1}, 4, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(0, 0, []float64{0}), test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(0, 1, []float64{0}), test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(1, 0, []float64{1}), test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(1, 1, []float64{0}), test.ShouldBeNil)

	solution, err := problem.Fit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solution.NumSegments(), test.ShouldEqual, 1)

	// 3t^2 - 2t^3
	expected := []float64{0, 0, 3, -2}
	for k, c := range expected {
		test.That(t, solution.Coefficients(0).At(0, k), test.ShouldAlmostEqual, c)
	}
	test.That(t, solution.Evaluate(0.5, 0)[0], test.ShouldAlmostEqual, 0.5)
	test.That(t, solution.Evaluate(0.5, 1)[0], test.ShouldAlmostEqual, 1.5)

	err = problem.AddConstantConstraint(0, 2, []float64{0})
	test.That(t, errors.Is(err, ErrSingularProblem), test.ShouldBeTrue)
}

func TestSplineProblemMultiSegment(t *testing.T) {
	times := []float64{0, 1, 3, 4}
	positions := [][]float64{{0, 1}, {2, -1}, {1, 0}, {3, 3}}
	problem, err := NewSplineProblem(times, 4, 2)
	test.That(t, err, test.ShouldBeNil)
	for i, p := range positions {
		test.That(t, problem.AddConstantConstraint(i, 0, p), test.ShouldBeNil)
	}
	test.That(t, problem.AddConstantConstraint(0, 1, []float64{0, 0}), test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(3, 1, []float64{0, 0}), test.ShouldBeNil)

	solution, err := problem.Fit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, solution.NumSegments(), test.ShouldEqual, 3)

	for i, tm := range times {
		got := solution.Evaluate(tm, 0)
		test.That(t, got[0], test.ShouldAlmostEqual, positions[i][0])
		test.That(t, got[1], test.ShouldAlmostEqual, positions[i][1])
	}

	// C2 at the interior knots.
	const eps = 1e-9
	for _, knot := range []float64{1, 3} {
		for derivative := 0; derivative < 3; derivative++ {
			before := solution.Evaluate(knot-eps, derivative)
			after := solution.Evaluate(knot+eps, derivative)
			for j := range before {
				test.That(t, after[j], test.ShouldAlmostEqual, before[j], 1e-6)
			}
		}
	}

	// Clamped at the ends.
	test.That(t, solution.Evaluate(-1, 0)[0], test.ShouldAlmostEqual, 0)
	test.That(t, solution.Evaluate(10, 0)[1], test.ShouldAlmostEqual, 3)
}

func TestSplineProblemErrors(t *testing.T) {
	_, err := NewSplineProblem([]float64{0}, 4, 1)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	_, err = NewSplineProblem([]float64{0, 0}, 4, 1)
	test.That(t, errors.Is(err, ErrNonPositiveDuration), test.ShouldBeTrue)

	_, err = NewSplineProblem([]float64{0, 1}, 0, 1)
	test.That(t, errors.Is(err, statespace.ErrInvalidConfiguration), test.ShouldBeTrue)

	problem, err := NewSplineProblem([]float64{0, 1}, 4, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, problem.AddConstantConstraint(2, 0, []float64{0}), test.ShouldNotBeNil)
	test.That(t, problem.AddConstantConstraint(0, 4, []float64{0}), test.ShouldNotBeNil)
	test.That(t, problem.AddConstantConstraint(0, 0, []float64{0, 1}), test.ShouldNotBeNil)

	// Underdetermined.
	test.That(t, problem.AddConstantConstraint(0, 0, []float64{0}), test.ShouldBeNil)
	_, err = problem.Fit()
	test.That(t, errors.Is(err, ErrSingularProblem), test.ShouldBeTrue)

	// Square but rank deficient: the same constraint four times.
	problem, err = NewSplineProblem([]float64{0, 1}, 4, 1)
	test.That(t, err, test.ShouldBeNil)
	for i := 0; i < 4; i++ {
		test.That(t, problem.AddConstantConstraint(0, 0, []float64{0}), test.ShouldBeNil)
	}
	_, err = problem.Fit()
	test.That(t, errors.Is(err, ErrSingularProblem), test.ShouldBeTrue)
}
