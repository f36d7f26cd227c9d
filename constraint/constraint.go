// Package constraint contains predicates and differentiable functions over state spaces.
package constraint

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/statespace"
)

// Type describes how the value of a differentiable constraint must be interpreted.
type Type int

const (
	// Equality constraints are satisfied when their value is zero.
	Equality Type = iota
	// Inequality constraints are satisfied when their value is non-positive.
	Inequality
)

func (t Type) String() string {
	switch t {
	case Equality:
		return "equality"
	case Inequality:
		return "inequality"
	default:
		return "unknown"
	}
}

// Constraint is defined over a single state space.
type Constraint interface {
	StateSpace() statespace.StateSpace
}

// Testable is a constraint that can be checked for satisfaction.
type Testable interface {
	Constraint
	// IsSatisfied returns whether state, owned by StateSpace(), satisfies the constraint.
	IsSatisfied(state statespace.State) bool
}

// Differentiable is a vector-valued constraint with an analytic Jacobian. Tolerances on the value
// are the caller's business.
type Differentiable interface {
	Constraint
	ConstraintDimension() int
	Value(state statespace.State) []float64
	// Jacobian has ConstraintDimension() rows and StateSpace().Dimension() columns.
	Jacobian(state statespace.State) *mat.Dense
	ValueAndJacobian(state statespace.State) ([]float64, *mat.Dense)
	ConstraintTypes() []Type
}

// SampleGenerator draws states that satisfy a constraint.
type SampleGenerator interface {
	StateSpace() statespace.StateSpace
	// Sample writes a new sample into state and reports whether it succeeded.
	Sample(state statespace.State) bool
	// NumSamplesRemaining returns how many more samples can be drawn, or -1 when unbounded.
	NumSamplesRemaining() int
	CanSample() bool
}

// Sampleable is a constraint whose satisfying set can be sampled.
type Sampleable interface {
	Constraint
	SampleGenerator() SampleGenerator
}
