// Package optimizer defines bounded minimization problems and the solvers that run them.
package optimizer

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"go.viam.com/aikido/statespace"
)

// ErrNoSolution is returned by a Solver that could not find a minimum.
var ErrNoSolution = errors.New("optimizer failed to find a solution")

const (
	defaultMaxEvaluations    = 1000
	defaultFunctionTolerance = 1e-10
)

// Function is a differentiable scalar objective.
type Function interface {
	// Eval returns the objective at x.
	Eval(x []float64) float64
	// EvalGradient writes the gradient at x into grad, which has the same length as x.
	EvalGradient(x, grad []float64)
}

// Problem is a box-constrained minimization.
type Problem struct {
	Dimension   int
	LowerBounds []float64
	UpperBounds []float64
	Objective   Function
	// InitialGuess is optional. When empty, the point of the box closest to the origin is used.
	InitialGuess []float64
}

// Validate checks that the problem is well formed.
func (p *Problem) Validate() error {
	if p.Dimension < 1 {
		return statespace.NewInvalidConfigurationError("problem dimension must be positive, got %d", p.Dimension)
	}
	if len(p.LowerBounds) != p.Dimension || len(p.UpperBounds) != p.Dimension {
		return statespace.NewInvalidConfigurationError(
			"problem of dimension %d has %d lower and %d upper bounds", p.Dimension, len(p.LowerBounds), len(p.UpperBounds))
	}
	for i := range p.LowerBounds {
		if p.LowerBounds[i] > p.UpperBounds[i] {
			return statespace.NewInvalidConfigurationError(
				"lower bound %v exceeds upper bound %v at index %d", p.LowerBounds[i], p.UpperBounds[i], i)
		}
	}
	if p.Objective == nil {
		return statespace.NewInvalidConfigurationError("problem has no objective")
	}
	if len(p.InitialGuess) != 0 && len(p.InitialGuess) != p.Dimension {
		return statespace.NewInvalidConfigurationError(
			"initial guess has length %d, expected %d", len(p.InitialGuess), p.Dimension)
	}
	return nil
}

// initialGuess returns the initial guess clamped into the box.
func (p *Problem) initialGuess() []float64 {
	x0 := make([]float64, p.Dimension)
	if len(p.InitialGuess) == p.Dimension {
		copy(x0, p.InitialGuess)
	}
	for i := range x0 {
		x0[i] = math.Max(p.LowerBounds[i], math.Min(p.UpperBounds[i], x0[i]))
	}
	return x0
}

// Result is the minimum found by a Solver.
type Result struct {
	Value    float64
	Solution []float64
}

// Solver minimizes problems. Implementations return an error wrapping ErrNoSolution when they fail
// to converge.
type Solver interface {
	Solve(ctx context.Context, problem *Problem) (*Result, error)
}

// Options configure the termination of a Solver.
type Options struct {
	// MaxEvaluations caps the number of objective evaluations.
	MaxEvaluations int
	// FunctionTolerance stops the search once the objective changes by less than this amount.
	FunctionTolerance float64
}

func (o Options) withDefaults() Options {
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = defaultMaxEvaluations
	}
	if o.FunctionTolerance <= 0 {
		o.FunctionTolerance = defaultFunctionTolerance
	}
	return o
}
