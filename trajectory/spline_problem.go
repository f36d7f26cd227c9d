// Package trajectory fits and evaluates piecewise-polynomial trajectories in a state space.
package trajectory

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/statespace"
)

var (
	// ErrNonPositiveDuration is returned when a segment would have zero or negative duration.
	ErrNonPositiveDuration = errors.New("segment duration must be positive")
	// ErrSingularProblem is returned when the constraints of a spline problem do not determine a
	// unique solution.
	ErrSingularProblem = errors.New("spline problem is singular")
)

// SplineProblem fits one polynomial per segment between consecutive knot times, for several
// outputs at once. Each polynomial is expressed in the local time of its segment, so segment i
// spans tau in [0, times[i+1]-times[i]].
//
// Continuity of derivatives 0 through numCoefficients-2 is imposed at every interior knot. The
// caller supplies the remaining constraints with AddConstantConstraint until the linear system
// is square.
type SplineProblem struct {
	times           []float64
	numCoefficients int
	numOutputs      int

	a    *mat.Dense
	b    *mat.Dense
	rows int
}

// NewSplineProblem returns a problem over the given knot times.
func NewSplineProblem(times []float64, numCoefficients, numOutputs int) (*SplineProblem, error) {
	if len(times) < 2 {
		return nil, statespace.NewInvalidConfigurationError("spline problem needs at least 2 knots, got %d", len(times))
	}
	if numCoefficients < 1 {
		return nil, statespace.NewInvalidConfigurationError("spline order must be at least 1, got %d", numCoefficients)
	}
	if numOutputs < 1 {
		return nil, statespace.NewInvalidConfigurationError("spline problem needs at least 1 output, got %d", numOutputs)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errors.Wrapf(ErrNonPositiveDuration, "knot %d at %v follows knot %d at %v", i, times[i], i-1, times[i-1])
		}
	}

	numSegments := len(times) - 1
	numUnknowns := numSegments * numCoefficients
	p := &SplineProblem{
		times:           append([]float64(nil), times...),
		numCoefficients: numCoefficients,
		numOutputs:      numOutputs,
		a:               mat.NewDense(numUnknowns, numUnknowns, nil),
		b:               mat.NewDense(numUnknowns, numOutputs, nil),
	}

	for knot := 1; knot < len(times)-1; knot++ {
		for derivative := 0; derivative < numCoefficients-1; derivative++ {
			p.addContinuityConstraint(knot, derivative)
		}
	}
	return p, nil
}

// NumSegments returns the number of polynomial segments.
func (p *SplineProblem) NumSegments() int {
	return len(p.times) - 1
}

func (p *SplineProblem) numUnknowns() int {
	return p.NumSegments() * p.numCoefficients
}

func (p *SplineProblem) segmentDuration(segment int) float64 {
	return p.times[segment+1] - p.times[segment]
}

func (p *SplineProblem) addContinuityConstraint(knot, derivative int) {
	left := derivativeBasis(p.numCoefficients, derivative, p.segmentDuration(knot-1))
	right := derivativeBasis(p.numCoefficients, derivative, 0)
	for k := 0; k < p.numCoefficients; k++ {
		p.a.Set(p.rows, (knot-1)*p.numCoefficients+k, left[k])
		p.a.Set(p.rows, knot*p.numCoefficients+k, -right[k])
	}
	p.rows++
}

// AddConstantConstraint requires the given derivative of every output at knot to equal values.
func (p *SplineProblem) AddConstantConstraint(knot, derivative int, values []float64) error {
	if knot < 0 || knot >= len(p.times) {
		return errors.Errorf("knot %d out of range [0, %d)", knot, len(p.times))
	}
	if derivative < 0 || derivative >= p.numCoefficients {
		return errors.Errorf("derivative %d out of range [0, %d)", derivative, p.numCoefficients)
	}
	if len(values) != p.numOutputs {
		return errors.Errorf("expected %d values, got %d", p.numOutputs, len(values))
	}
	if p.rows == p.numUnknowns() {
		return errors.Wrap(ErrSingularProblem, "problem is already fully constrained")
	}

	segment, tau := knot, 0.0
	if knot == len(p.times)-1 {
		segment = knot - 1
		tau = p.segmentDuration(segment)
	}
	basis := derivativeBasis(p.numCoefficients, derivative, tau)
	for k, v := range basis {
		p.a.Set(p.rows, segment*p.numCoefficients+k, v)
	}
	p.b.SetRow(p.rows, values)
	p.rows++
	return nil
}

// Fit solves the problem exactly. It fails if the constraints do not form a square, non-singular
// system.
func (p *SplineProblem) Fit() (*SplineSolution, error) {
	if p.rows != p.numUnknowns() {
		return nil, errors.Wrapf(ErrSingularProblem, "%d constraints for %d unknowns", p.rows, p.numUnknowns())
	}

	var x mat.Dense
	if err := x.Solve(p.a, p.b); err != nil {
		return nil, errors.Wrapf(ErrSingularProblem, "%v", err)
	}

	solution := &SplineSolution{
		times:        append([]float64(nil), p.times...),
		coefficients: make([]*mat.Dense, p.NumSegments()),
	}
	for segment := range solution.coefficients {
		coefficients := mat.NewDense(p.numOutputs, p.numCoefficients, nil)
		coefficients.Copy(x.Slice(segment*p.numCoefficients, (segment+1)*p.numCoefficients, 0, p.numOutputs).T())
		solution.coefficients[segment] = coefficients
	}
	return solution, nil
}

// SplineSolution holds the fitted coefficients of a SplineProblem.
type SplineSolution struct {
	times        []float64
	coefficients []*mat.Dense
}

// NumSegments returns the number of segments.
func (s *SplineSolution) NumSegments() int {
	return len(s.coefficients)
}

// Coefficients returns the numOutputs x numCoefficients matrix of one segment, lowest power first.
func (s *SplineSolution) Coefficients(segment int) *mat.Dense {
	return s.coefficients[segment]
}

// Evaluate returns the given derivative of every output at time t, clamped to the knot range.
func (s *SplineSolution) Evaluate(t float64, derivative int) []float64 {
	segment := len(s.coefficients) - 1
	for i := 1; i < len(s.times)-1; i++ {
		if t < s.times[i] {
			segment = i - 1
			break
		}
	}
	tau := t - s.times[segment]
	if tau < 0 {
		tau = 0
	}
	if end := s.times[segment+1] - s.times[segment]; tau > end {
		tau = end
	}
	return evaluatePolynomial(s.coefficients[segment], derivative, tau)
}

// derivativeBasis returns d^n/dtau^n of (1, tau, tau^2, ...) at tau.
func derivativeBasis(numCoefficients, derivative int, tau float64) []float64 {
	basis := make([]float64, numCoefficients)
	for k := derivative; k < numCoefficients; k++ {
		factor := 1.0
		for j := 0; j < derivative; j++ {
			factor *= float64(k - j)
		}
		power := 1.0
		for j := 0; j < k-derivative; j++ {
			power *= tau
		}
		basis[k] = factor * power
	}
	return basis
}

func evaluatePolynomial(coefficients *mat.Dense, derivative int, tau float64) []float64 {
	rows, cols := coefficients.Dims()
	out := make([]float64, rows)
	if rows == 0 || derivative >= cols {
		return out
	}
	basis := mat.NewVecDense(cols, derivativeBasis(cols, derivative, tau))
	mat.NewVecDense(rows, out).MulVec(coefficients, basis)
	return out
}
