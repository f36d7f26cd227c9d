package vectorfield

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/logging"
	"go.viam.com/aikido/optimizer"
	"go.viam.com/aikido/spatialmath"
)

type fakeSkeleton struct {
	positions     []float64
	positionLower []float64
	positionUpper []float64
	velocityLower []float64
	velocityUpper []float64
	jacobian      *mat.Dense
	jacobianErr   error
}

// newFakeSkeleton returns a skeleton whose Jacobian maps joint i to twist component columns[i].
func newFakeSkeleton(columns ...int) *fakeSkeleton {
	n := len(columns)
	s := &fakeSkeleton{
		positions:     make([]float64, n),
		positionLower: make([]float64, n),
		positionUpper: make([]float64, n),
		velocityLower: make([]float64, n),
		velocityUpper: make([]float64, n),
		jacobian:      mat.NewDense(spatialmath.TwistDimension, n, nil),
	}
	for i, row := range columns {
		s.positionLower[i], s.positionUpper[i] = -10, 10
		s.velocityLower[i], s.velocityUpper[i] = -2, 2
		s.jacobian.Set(row, i, 1)
	}
	return s
}

func (s *fakeSkeleton) NumDofs() int                   { return len(s.positions) }
func (s *fakeSkeleton) Positions() []float64           { return append([]float64(nil), s.positions...) }
func (s *fakeSkeleton) PositionLowerLimits() []float64 { return s.positionLower }
func (s *fakeSkeleton) PositionUpperLimits() []float64 { return s.positionUpper }
func (s *fakeSkeleton) VelocityLowerLimits() []float64 { return s.velocityLower }
func (s *fakeSkeleton) VelocityUpperLimits() []float64 { return s.velocityUpper }

func (s *fakeSkeleton) SetPositions(positions []float64) error {
	if len(positions) != len(s.positions) {
		return errors.New("wrong number of positions")
	}
	copy(s.positions, positions)
	return nil
}

func (s *fakeSkeleton) WorldJacobian(body string) (*mat.Dense, error) {
	if s.jacobianErr != nil {
		return nil, s.jacobianErr
	}
	return s.jacobian, nil
}

// mockSolver returns a canned result and records the problem it was given.
type mockSolver struct {
	result  *optimizer.Result
	err     error
	problem *optimizer.Problem
}

func (m *mockSolver) Solve(ctx context.Context, problem *optimizer.Problem) (*optimizer.Result, error) {
	m.problem = problem
	return m.result, m.err
}

func TestDesiredTwistFunction(t *testing.T) {
	jac := mat.NewDense(6, 2, []float64{
		1, 0,
		0, 0,
		0, 0,
		0, 2,
		0, 0,
		1, 1,
	})
	twist := spatialmath.Twist{Angular: r3.Vector{X: 1}, Linear: r3.Vector{X: 2, Z: 1}}
	f := NewDesiredTwistFunction(twist, jac)

	test.That(t, f.Eval([]float64{1, 1}), test.ShouldAlmostEqual, 0.5)
	test.That(t, f.Eval([]float64{0, 0}), test.ShouldAlmostEqual, 3)

	grad := make([]float64, 2)
	f.EvalGradient([]float64{1, 1}, grad)
	// residual is (0, 0, 0, 0, 0, 1)
	test.That(t, grad, test.ShouldResemble, []float64{1, 1})

	const h = 1e-6
	x := []float64{0.3, -0.4}
	f.EvalGradient(x, grad)
	for i := range x {
		plus := append([]float64(nil), x...)
		plus[i] += h
		minus := append([]float64(nil), x...)
		minus[i] -= h
		test.That(t, grad[i], test.ShouldAlmostEqual, (f.Eval(plus)-f.Eval(minus))/(2*h), 1e-6)
	}
}

func TestJointVelocityBounds(t *testing.T) {
	s := newFakeSkeleton(0)
	s.positionLower[0], s.positionUpper[0] = -1, 1
	s.velocityLower[0], s.velocityUpper[0] = -1, 1
	const timestep, padding = 0.5, 0.25

	// The padded lookahead thresholds are exactly -0.25 and 0.25.
	for _, tc := range []struct {
		position     float64
		lower, upper float64
	}{
		{0, -1, 1},
		{-0.5, 0, 1},
		{0.5, -1, 0},
		{-0.25, -1, 1},
		{0.25, -1, 1},
		{-0.2500001, 0, 1},
		{0.2500001, -1, 0},
	} {
		s.positions[0] = tc.position
		lower, upper := JointVelocityBounds(s, timestep, padding)
		test.That(t, lower[0], test.ShouldEqual, tc.lower)
		test.That(t, upper[0], test.ShouldEqual, tc.upper)
	}
}

func TestComputeJointVelocityFromTwistReachable(t *testing.T) {
	s := newFakeSkeleton(0, 1, 2, 3, 4, 5)
	s.jacobian.Set(1, 1, 2)
	twist, err := spatialmath.NewTwistFromVector([]float64{0.5, 0.2, -0.3, 0.1, 0, 0.4})
	test.That(t, err, test.ShouldBeNil)

	solver := optimizer.NewGonumSolver(optimizer.Options{}, logging.NewTestLogger(t))
	qd, err := ComputeJointVelocityFromTwist(context.Background(), twist, s, "tool", 1e-6, 0.01, 0.01, solver)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(qd), test.ShouldEqual, 6)

	var achieved mat.VecDense
	achieved.MulVec(s.jacobian, mat.NewVecDense(6, qd))
	for i, expected := range twist.Vector() {
		test.That(t, achieved.AtVec(i), test.ShouldAlmostEqual, expected, 1e-4)
	}
	test.That(t, qd[1], test.ShouldAlmostEqual, 0.1, 1e-4)
}

func TestComputeJointVelocityFromTwistUnreachable(t *testing.T) {
	s := newFakeSkeleton(3)
	twist := spatialmath.Twist{Linear: r3.Vector{X: 5}}

	solver := optimizer.NewGonumSolver(optimizer.Options{}, logging.NewTestLogger(t))
	qd, err := ComputeJointVelocityFromTwist(context.Background(), twist, s, "tool", 1e-9, 0.01, 0.01, solver)
	test.That(t, errors.Is(err, ErrToleranceExceeded), test.ShouldBeTrue)
	test.That(t, qd, test.ShouldBeNil)

	// Pinned against its upper limit, the joint may not move forward at all.
	s.positions[0] = s.positionUpper[0]
	qd, err = ComputeJointVelocityFromTwist(context.Background(), twist, s, "tool", 1e-9, 0.01, 0.01, solver)
	test.That(t, errors.Is(err, ErrToleranceExceeded), test.ShouldBeTrue)
	test.That(t, qd, test.ShouldBeNil)
}

func TestComputeJointVelocityFromTwistSolverOutcomes(t *testing.T) {
	s := newFakeSkeleton(3, 4)
	s.positions[1] = 9.999
	twist := spatialmath.Twist{Linear: r3.Vector{X: 1}}
	ctx := context.Background()

	failing := &mockSolver{err: optimizer.ErrNoSolution}
	qd, err := ComputeJointVelocityFromTwist(ctx, twist, s, "tool", 1e-3, 0.01, 0.01, failing)
	test.That(t, errors.Is(err, ErrNoConvergence), test.ShouldBeTrue)
	test.That(t, qd, test.ShouldBeNil)
	test.That(t, failing.problem.Dimension, test.ShouldEqual, 2)
	test.That(t, failing.problem.LowerBounds, test.ShouldResemble, []float64{-2, -2})
	test.That(t, failing.problem.UpperBounds, test.ShouldResemble, []float64{2, 0})

	loose := &mockSolver{result: &optimizer.Result{Value: 0.5, Solution: []float64{1, 0}}}
	qd, err = ComputeJointVelocityFromTwist(ctx, twist, s, "tool", 0.1, 0.01, 0.01, loose)
	test.That(t, errors.Is(err, ErrToleranceExceeded), test.ShouldBeTrue)
	test.That(t, qd, test.ShouldBeNil)

	qd, err = ComputeJointVelocityFromTwist(ctx, twist, s, "tool", 1, 0.01, 0.01, loose)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, qd, test.ShouldResemble, []float64{1, 0})

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ComputeJointVelocityFromTwist(canceled, twist, s, "tool", 1e-3, 0.01, 0.01, failing)
	test.That(t, err, test.ShouldBeError, context.Canceled)

	s.jacobianErr = errors.New("no such body")
	_, err = ComputeJointVelocityFromTwist(ctx, twist, s, "tool", 1e-3, 0.01, 0.01, loose)
	test.That(t, err, test.ShouldBeError, s.jacobianErr)
}
