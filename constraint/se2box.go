package constraint

import (
	"math"
	"math/rand"

	"go.viam.com/aikido/statespace"
)

// SE2BoxConstraint limits the translation of an SE(2) state to an axis-aligned rectangle and
// leaves the rotation free. It can be sampled uniformly over translation and angle.
type SE2BoxConstraint struct {
	space        *statespace.SE2StateSpace
	lowerLimits  [2]float64
	upperLimits  [2]float64
	randomSource *rand.Rand
}

// NewSE2BoxConstraint returns a translational box constraint on space. The limits must be finite.
func NewSE2BoxConstraint(
	space *statespace.SE2StateSpace,
	randomSource *rand.Rand,
	lowerTranslationLimits, upperTranslationLimits [2]float64,
) (*SE2BoxConstraint, error) {
	if space == nil {
		return nil, statespace.NewInvalidConfigurationError("SE2 box constraint needs a state space")
	}
	if randomSource == nil {
		return nil, statespace.NewInvalidConfigurationError("SE2 box constraint needs a random source")
	}
	for i := 0; i < 2; i++ {
		lo, hi := lowerTranslationLimits[i], upperTranslationLimits[i]
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
			return nil, statespace.NewInvalidConfigurationError("SE2 translation limits on axis %d must be finite", i)
		}
		if lo > hi {
			return nil, statespace.NewInvalidConfigurationError(
				"lower translation limit %d (%f) exceeds upper limit (%f)", i, lo, hi)
		}
	}
	return &SE2BoxConstraint{
		space:        space,
		lowerLimits:  lowerTranslationLimits,
		upperLimits:  upperTranslationLimits,
		randomSource: randomSource,
	}, nil
}

// StateSpace returns the SE(2) space.
func (sb *SE2BoxConstraint) StateSpace() statespace.StateSpace {
	return sb.space
}

// IsSatisfied returns whether the translation lies within the rectangle.
func (sb *SE2BoxConstraint) IsSatisfied(state statespace.State) bool {
	x, y, _ := sb.space.Transform(state)
	return x >= sb.lowerLimits[0] && x <= sb.upperLimits[0] &&
		y >= sb.lowerLimits[1] && y <= sb.upperLimits[1]
}

// SampleGenerator returns an unbounded uniform sampler.
func (sb *SE2BoxConstraint) SampleGenerator() SampleGenerator {
	return &se2BoxSampler{box: sb}
}

type se2BoxSampler struct {
	box *SE2BoxConstraint
}

func (s *se2BoxSampler) StateSpace() statespace.StateSpace {
	return s.box.space
}

func (s *se2BoxSampler) CanSample() bool {
	return true
}

func (s *se2BoxSampler) NumSamplesRemaining() int {
	return -1
}

func (s *se2BoxSampler) Sample(state statespace.State) bool {
	b := s.box
	x := b.lowerLimits[0] + b.randomSource.Float64()*(b.upperLimits[0]-b.lowerLimits[0])
	y := b.lowerLimits[1] + b.randomSource.Float64()*(b.upperLimits[1]-b.lowerLimits[1])
	theta := -math.Pi + b.randomSource.Float64()*2*math.Pi
	b.space.SetTransform(state, x, y, theta)
	return true
}
