package constraint

import (
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/statespace"
)

// PolynomialConstraint is the scalar equation a0 + a1*x + ... + aN*x^N = 0 over R^1.
type PolynomialConstraint struct {
	coefficients []float64
	space        *statespace.RealVectorStateSpace
}

// NewPolynomialConstraint returns the constraint with the given coefficients, lowest degree
// first. The last coefficient must be non-zero. If space is nil a new R^1 is created; otherwise it
// must be one-dimensional.
func NewPolynomialConstraint(coefficients []float64, space *statespace.RealVectorStateSpace) (*PolynomialConstraint, error) {
	if len(coefficients) == 0 {
		return nil, statespace.NewInvalidConfigurationError("polynomial constraint needs at least one coefficient")
	}
	if coefficients[len(coefficients)-1] == 0 {
		return nil, statespace.NewInvalidConfigurationError("leading polynomial coefficient must be non-zero")
	}
	if space == nil {
		var err error
		if space, err = statespace.NewRealVectorStateSpace(1); err != nil {
			return nil, err
		}
	} else if space.Dimension() != 1 {
		return nil, statespace.NewInvalidConfigurationError(
			"polynomial constraint is defined over R1, got R%d", space.Dimension())
	}
	return &PolynomialConstraint{
		coefficients: append([]float64(nil), coefficients...),
		space:        space,
	}, nil
}

// StateSpace returns the R^1 space the constraint is defined over.
func (pc *PolynomialConstraint) StateSpace() statespace.StateSpace {
	return pc.space
}

// ConstraintDimension is 1.
func (pc *PolynomialConstraint) ConstraintDimension() int {
	return 1
}

// ConstraintTypes declares a single equality constraint.
func (pc *PolynomialConstraint) ConstraintTypes() []Type {
	return []Type{Equality}
}

// Value evaluates the polynomial at the state's scalar value.
func (pc *PolynomialConstraint) Value(state statespace.State) []float64 {
	value, _ := pc.evaluate(pc.space.Values(state)[0])
	return []float64{value}
}

// Jacobian returns the 1x1 derivative of the polynomial at the state's scalar value.
func (pc *PolynomialConstraint) Jacobian(state statespace.State) *mat.Dense {
	_, derivative := pc.evaluate(pc.space.Values(state)[0])
	return mat.NewDense(1, 1, []float64{derivative})
}

// ValueAndJacobian returns both the value and Jacobian from a single read of the state.
func (pc *PolynomialConstraint) ValueAndJacobian(state statespace.State) ([]float64, *mat.Dense) {
	value, derivative := pc.evaluate(pc.space.Values(state)[0])
	return []float64{value}, mat.NewDense(1, 1, []float64{derivative})
}

// evaluate runs Horner's scheme for the polynomial and its derivative at x.
func (pc *PolynomialConstraint) evaluate(x float64) (value, derivative float64) {
	for i := len(pc.coefficients) - 1; i >= 0; i-- {
		derivative = derivative*x + value
		value = value*x + pc.coefficients[i]
	}
	return value, derivative
}
