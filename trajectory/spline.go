package trajectory

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/statespace"
)

// ErrEmptySpline is returned when evaluating a spline with no segments.
var ErrEmptySpline = errors.New("spline has no segments")

type segment struct {
	coefficients *mat.Dense
	duration     float64
	startState   statespace.State
}

// Spline is a sequence of polynomial segments in a state space. Segment i is anchored at its own
// start state s_i and its value at local time tau is s_i * exp(sum_k c_k tau^k), where the
// coefficient matrix has one row per tangent dimension of the space.
//
// A Spline owns copies of its start states; call Release when done with it.
type Spline struct {
	space     statespace.StateSpace
	startTime float64
	segments  []segment
}

// NewSpline returns an empty spline beginning at startTime.
func NewSpline(space statespace.StateSpace, startTime float64) *Spline {
	return &Spline{space: space, startTime: startTime}
}

// StateSpace returns the space the spline lives in.
func (s *Spline) StateSpace() statespace.StateSpace {
	return s.space
}

// AddSegment appends a segment. The start state is copied.
func (s *Spline) AddSegment(coefficients *mat.Dense, duration float64, startState statespace.State) error {
	if duration <= 0 {
		return errors.Wrapf(ErrNonPositiveDuration, "got %v", duration)
	}
	if rows, _ := coefficients.Dims(); rows != s.space.Dimension() {
		return errors.Errorf("coefficients have %d rows, state space has dimension %d", rows, s.space.Dimension())
	}

	state, err := s.space.AllocateState()
	if err != nil {
		return errors.Wrap(err, "allocating segment start state")
	}
	s.space.CopyState(startState, state)
	s.segments = append(s.segments, segment{
		coefficients: mat.DenseCopyOf(coefficients),
		duration:     duration,
		startState:   state,
	})
	return nil
}

// NumSegments returns the number of segments.
func (s *Spline) NumSegments() int {
	return len(s.segments)
}

// SegmentDuration returns the duration of segment i.
func (s *Spline) SegmentDuration(i int) float64 {
	return s.segments[i].duration
}

// SegmentCoefficients returns the coefficient matrix of segment i.
func (s *Spline) SegmentCoefficients(i int) mat.Matrix {
	return s.segments[i].coefficients
}

// StartTime returns the time of the first knot.
func (s *Spline) StartTime() float64 {
	return s.startTime
}

// EndTime returns StartTime plus Duration.
func (s *Spline) EndTime() float64 {
	return s.startTime + s.Duration()
}

// Duration returns the summed duration of all segments.
func (s *Spline) Duration() float64 {
	return lo.SumBy(s.segments, func(seg segment) float64 { return seg.duration })
}

// locate returns the segment containing t and the local time within it, clamping t to the
// spline's time range.
func (s *Spline) locate(t float64) (int, float64) {
	tau := t - s.startTime
	if tau < 0 {
		tau = 0
	}
	for i, seg := range s.segments {
		if tau <= seg.duration || i == len(s.segments)-1 {
			return i, min(tau, seg.duration)
		}
		tau -= seg.duration
	}
	return -1, 0
}

// Evaluate writes the state at time t into out. Times outside [StartTime, EndTime] evaluate to
// the nearest end.
func (s *Spline) Evaluate(t float64, out statespace.State) error {
	if len(s.segments) == 0 {
		return ErrEmptySpline
	}
	i, tau := s.locate(t)
	seg := s.segments[i]

	relative, err := s.space.AllocateState()
	if err != nil {
		return err
	}
	s.space.ExpMap(evaluatePolynomial(seg.coefficients, 0, tau), relative)
	s.space.Compose(seg.startState, relative, out)
	return s.space.FreeState(relative)
}

// EvaluateDerivative returns the derivative of the given order at time t, in tangent
// coordinates. Order must be at least 1.
func (s *Spline) EvaluateDerivative(t float64, derivative int) ([]float64, error) {
	if derivative < 1 {
		return nil, errors.Errorf("derivative order must be at least 1, got %d", derivative)
	}
	if len(s.segments) == 0 {
		return nil, ErrEmptySpline
	}
	i, tau := s.locate(t)
	return evaluatePolynomial(s.segments[i].coefficients, derivative, tau), nil
}

// Release frees the start states owned by the spline and empties it.
func (s *Spline) Release() error {
	var err error
	for _, seg := range s.segments {
		err = multierr.Combine(err, s.space.FreeState(seg.startState))
	}
	s.segments = nil
	return err
}
