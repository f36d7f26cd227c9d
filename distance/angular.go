package distance

import (
	"math"

	"go.viam.com/aikido/statespace"
	"go.viam.com/aikido/utils"
)

// AngularMetric is the shortest-arc distance on SO(2).
type AngularMetric struct {
	space *statespace.SO2StateSpace
}

// NewAngularMetric returns the shortest-arc metric of space.
func NewAngularMetric(space *statespace.SO2StateSpace) *AngularMetric {
	return &AngularMetric{space: space}
}

// StateSpace returns the SO(2) space.
func (am *AngularMetric) StateSpace() statespace.StateSpace {
	return am.space
}

// Distance returns the absolute shortest rotation between the two angles, in [0, pi].
func (am *AngularMetric) Distance(state1, state2 statespace.State) float64 {
	return math.Abs(utils.WrapAngle(am.space.Angle(state2) - am.space.Angle(state1)))
}

// Interpolate rotates along the shortest arc.
func (am *AngularMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) {
	start := am.space.Angle(from)
	delta := utils.WrapAngle(am.space.Angle(to) - start)
	am.space.SetAngle(out, start+t*delta)
}
