package constraint

import (
	"math"
	"math/rand"

	"go.viam.com/aikido/statespace"
)

// RnBoxConstraint bounds every coordinate of an R^n state to [lower_i, upper_i].
type RnBoxConstraint struct {
	space        *statespace.RealVectorStateSpace
	lowerLimits  []float64
	upperLimits  []float64
	randomSource *rand.Rand
}

// NewRnBoxConstraint returns a box constraint. randomSource is only used for sampling and may be
// nil, in which case a deterministically seeded source is used.
func NewRnBoxConstraint(
	space *statespace.RealVectorStateSpace,
	lowerLimits, upperLimits []float64,
	randomSource *rand.Rand,
) (*RnBoxConstraint, error) {
	if space == nil {
		return nil, statespace.NewInvalidConfigurationError("box constraint needs a state space")
	}
	if len(lowerLimits) != space.Dimension() || len(upperLimits) != space.Dimension() {
		return nil, statespace.NewInvalidConfigurationError(
			"box limits have length %d and %d, expected %d", len(lowerLimits), len(upperLimits), space.Dimension())
	}
	for i := range lowerLimits {
		if lowerLimits[i] > upperLimits[i] {
			return nil, statespace.NewInvalidConfigurationError(
				"lower limit %d (%f) exceeds upper limit (%f)", i, lowerLimits[i], upperLimits[i])
		}
	}
	if randomSource == nil {
		//nolint:gosec
		randomSource = rand.New(rand.NewSource(1))
	}
	return &RnBoxConstraint{
		space:        space,
		lowerLimits:  append([]float64(nil), lowerLimits...),
		upperLimits:  append([]float64(nil), upperLimits...),
		randomSource: randomSource,
	}, nil
}

// StateSpace returns the R^n space.
func (rb *RnBoxConstraint) StateSpace() statespace.StateSpace {
	return rb.space
}

// IsSatisfied returns whether every coordinate lies within its limits.
func (rb *RnBoxConstraint) IsSatisfied(state statespace.State) bool {
	for i, v := range rb.space.Values(state) {
		if v < rb.lowerLimits[i] || v > rb.upperLimits[i] {
			return false
		}
	}
	return true
}

// SampleGenerator returns an unbounded uniform sampler over the box. Boxes with an infinite side
// cannot be sampled.
func (rb *RnBoxConstraint) SampleGenerator() SampleGenerator {
	return &rnBoxSampler{box: rb}
}

type rnBoxSampler struct {
	box *RnBoxConstraint
}

func (s *rnBoxSampler) StateSpace() statespace.StateSpace {
	return s.box.space
}

func (s *rnBoxSampler) CanSample() bool {
	for i := range s.box.lowerLimits {
		if math.IsInf(s.box.lowerLimits[i], 0) || math.IsInf(s.box.upperLimits[i], 0) {
			return false
		}
	}
	return true
}

func (s *rnBoxSampler) NumSamplesRemaining() int {
	if !s.CanSample() {
		return 0
	}
	return -1
}

func (s *rnBoxSampler) Sample(state statespace.State) bool {
	if !s.CanSample() {
		return false
	}
	values := s.box.space.Values(state)
	for i := range values {
		lo, hi := s.box.lowerLimits[i], s.box.upperLimits[i]
		values[i] = lo + s.box.randomSource.Float64()*(hi-lo)
	}
	return true
}
