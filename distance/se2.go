package distance

import (
	"math"

	"go.viam.com/aikido/statespace"
	"go.viam.com/aikido/utils"
)

// SE2Metric adds the translational distance of two planar transforms to their shortest-arc
// rotational distance scaled by rotationWeight.
type SE2Metric struct {
	space          *statespace.SE2StateSpace
	rotationWeight float64
}

// NewSE2Metric returns an SE(2) metric.
func NewSE2Metric(space *statespace.SE2StateSpace, rotationWeight float64) *SE2Metric {
	return &SE2Metric{space: space, rotationWeight: rotationWeight}
}

// StateSpace returns the SE(2) space.
func (sm *SE2Metric) StateSpace() statespace.StateSpace {
	return sm.space
}

// Distance returns |translation difference| + rotationWeight*|shortest rotation|.
func (sm *SE2Metric) Distance(state1, state2 statespace.State) float64 {
	x1, y1, theta1 := sm.space.Transform(state1)
	x2, y2, theta2 := sm.space.Transform(state2)
	return math.Hypot(x2-x1, y2-y1) + sm.rotationWeight*math.Abs(utils.WrapAngle(theta2-theta1))
}

// Interpolate moves the translation along a straight line and the rotation along the shortest arc.
func (sm *SE2Metric) Interpolate(from, to statespace.State, t float64, out statespace.State) {
	x1, y1, theta1 := sm.space.Transform(from)
	x2, y2, theta2 := sm.space.Transform(to)
	sm.space.SetTransform(out,
		x1+t*(x2-x1),
		y1+t*(y2-y1),
		theta1+t*utils.WrapAngle(theta2-theta1))
}
