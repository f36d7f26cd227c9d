//go:build !windows && !no_cgo

package optimizer

import (
	"context"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/aikido/logging"
)

// NloptSolver minimizes problems with NLopt's bounded L-BFGS.
type NloptSolver struct {
	options Options
	logger  logging.Logger
}

// NewNloptSolver returns an NLopt L-BFGS solver.
func NewNloptSolver(options Options, logger logging.Logger) *NloptSolver {
	return &NloptSolver{options: options.withDefaults(), logger: logger}
}

// Solve runs the optimization. Context cancellation stops it at the next objective evaluation.
func (s *NloptSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	opt, err := nlopt.NewNLopt(nlopt.LD_LBFGS, uint(problem.Dimension))
	if err != nil {
		return nil, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	var ctxErr error
	// Gradient is, under the hood, an unsafe C array that we are meant to mutate in place. It is
	// empty when NLopt only needs the value.
	minFunc := func(x, gradient []float64) float64 {
		if err := ctx.Err(); err != nil && ctxErr == nil {
			ctxErr = err
			if stopErr := opt.ForceStop(); stopErr != nil {
				s.logger.Debugw("nlopt forcestop error", "error", stopErr)
			}
		}
		if len(gradient) > 0 {
			problem.Objective.EvalGradient(x, gradient)
		}
		return problem.Objective.Eval(x)
	}

	err = multierr.Combine(
		opt.SetLowerBounds(problem.LowerBounds),
		opt.SetUpperBounds(problem.UpperBounds),
		opt.SetFtolAbs(s.options.FunctionTolerance),
		opt.SetFtolRel(s.options.FunctionTolerance),
		opt.SetMaxEval(s.options.MaxEvaluations),
		opt.SetMinObjective(minFunc),
	)
	if err != nil {
		return nil, errors.Wrap(err, "configuring nlopt")
	}

	solution, value, err := opt.Optimize(problem.initialGuess())
	if ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		s.logger.Debugw("nlopt failed", "error", err, "last_error", opt.LastStatus())
		return nil, errors.Wrap(ErrNoSolution, err.Error())
	}
	return &Result{Value: value, Solution: solution}, nil
}
