//go:build !windows && !no_cgo

package optimizer

import (
	"context"
	"testing"

	"go.viam.com/test"

	"go.viam.com/aikido/logging"
)

func TestNloptSolver(t *testing.T) {
	solver := NewNloptSolver(Options{MaxEvaluations: 500}, logging.NewTestLogger(t))
	result, err := solver.Solve(context.Background(), boxedProblem())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Solution[0], test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, result.Solution[1], test.ShouldAlmostEqual, -1, 1e-6)
	test.That(t, result.Solution[2], test.ShouldAlmostEqual, 5, 1e-6)
	test.That(t, result.Value, test.ShouldAlmostEqual, 1, 1e-6)
}
