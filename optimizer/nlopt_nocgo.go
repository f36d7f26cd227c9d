//go:build windows || no_cgo

package optimizer

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/aikido/logging"
)

// NloptSolver mimics the type in the cgo compiled code.
type NloptSolver struct{}

// NewNloptSolver returns a solver that always fails; NLopt needs cgo.
func NewNloptSolver(options Options, logger logging.Logger) *NloptSolver {
	return &NloptSolver{}
}

// Solve refuses to solve problems without cgo.
func (s *NloptSolver) Solve(ctx context.Context, problem *Problem) (*Result, error) {
	return nil, errors.New("nlopt is not supported on this build")
}
