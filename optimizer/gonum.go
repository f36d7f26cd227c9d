package optimizer

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"go.viam.com/aikido/logging"
)

// interiorFraction keeps the initial guess away from the flat points of the sine map, where the
// gradient with respect to the free variable vanishes.
const interiorFraction = 0.9

// GonumSolver minimizes box-constrained problems with gonum's unconstrained L-BFGS, by mapping
// each bounded coordinate through x = mid + halfWidth*sin(z). Half-bounded coordinates use
// x = bound +- z^2 and unbounded ones are left as is.
type GonumSolver struct {
	options Options
	logger  logging.Logger
}

// NewGonumSolver returns a pure Go L-BFGS solver.
func NewGonumSolver(options Options, logger logging.Logger) *GonumSolver {
	return &GonumSolver{options: options.withDefaults(), logger: logger}
}

type boxMap struct {
	lower, upper []float64
}

func (b boxMap) toBox(z, x []float64) {
	for i := range z {
		lo, hi := b.lower[i], b.upper[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			x[i] = (lo+hi)/2 + (hi-lo)/2*math.Sin(z[i])
		case !math.IsInf(lo, 0):
			x[i] = lo + z[i]*z[i]
		case !math.IsInf(hi, 0):
			x[i] = hi - z[i]*z[i]
		default:
			x[i] = z[i]
		}
	}
}

// chain converts a gradient with respect to x into one with respect to z, in place.
func (b boxMap) chain(z, grad []float64) {
	for i := range z {
		lo, hi := b.lower[i], b.upper[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			grad[i] *= (hi - lo) / 2 * math.Cos(z[i])
		case !math.IsInf(lo, 0):
			grad[i] *= 2 * z[i]
		case !math.IsInf(hi, 0):
			grad[i] *= -2 * z[i]
		}
	}
}

func (b boxMap) fromBox(x, z []float64) {
	for i := range x {
		lo, hi := b.lower[i], b.upper[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			ratio := 0.0
			if hi > lo {
				ratio = (2*x[i] - lo - hi) / (hi - lo)
			}
			z[i] = math.Asin(math.Max(-interiorFraction, math.Min(interiorFraction, ratio)))
		case !math.IsInf(lo, 0):
			z[i] = math.Sqrt(math.Max(x[i]-lo, 1-interiorFraction))
		case !math.IsInf(hi, 0):
			z[i] = math.Sqrt(math.Max(hi-x[i], 1-interiorFraction))
		default:
			z[i] = x[i]
		}
	}
}

// Solve runs the optimization.
func (s *GonumSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	box := boxMap{lower: problem.LowerBounds, upper: problem.UpperBounds}
	x := make([]float64, problem.Dimension)
	z0 := make([]float64, problem.Dimension)
	box.fromBox(problem.initialGuess(), z0)

	p := optimize.Problem{
		Func: func(z []float64) float64 {
			box.toBox(z, x)
			return problem.Objective.Eval(x)
		},
		Grad: func(grad, z []float64) {
			box.toBox(z, x)
			problem.Objective.EvalGradient(x, grad)
			box.chain(z, grad)
		},
		Status: func() (optimize.Status, error) {
			if err := ctx.Err(); err != nil {
				return optimize.Failure, err
			}
			return optimize.NotTerminated, nil
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: s.options.FunctionTolerance,
		FuncEvaluations:   s.options.MaxEvaluations,
		Converger: &optimize.FunctionConverge{
			Absolute:   s.options.FunctionTolerance,
			Iterations: 20,
		},
	}

	result, err := optimize.Minimize(p, z0, settings, &optimize.LBFGS{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	switch {
	case err == nil:
	case result != nil && (errors.Is(err, optimize.ErrNoProgress) || errors.Is(err, optimize.ErrLinesearcherFailure)):
		// The line search stalled; the best point so far is still a valid answer.
		s.logger.Debugw("gonum lbfgs stalled", "error", err, "status", result.Status.String())
	default:
		s.logger.Debugw("gonum lbfgs failed", "error", err)
		return nil, errors.Wrap(ErrNoSolution, err.Error())
	}
	if math.IsNaN(result.F) {
		return nil, errors.Wrap(ErrNoSolution, "objective is NaN")
	}

	solution := make([]float64, problem.Dimension)
	box.toBox(result.X, solution)
	return &Result{Value: problem.Objective.Eval(solution), Solution: solution}, nil
}
