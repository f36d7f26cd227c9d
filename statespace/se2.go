package statespace

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/aikido/utils"
)

// smallAngle is the rotation below which the SE(2) exponential uses its first-order form.
const smallAngle = 1e-9

// SE2StateSpace is the group of planar rigid transforms. Tangent vectors are ordered
// (angular velocity, linear x, linear y).
type SE2StateSpace struct {
	allocCounter
}

// SE2State is a planar rigid transform: a rotation by theta followed by a translation (x, y).
type SE2State struct {
	owner    *SE2StateSpace
	x, y     float64
	theta    float64
	released bool
}

// NewSE2StateSpace returns a new SE(2) space.
func NewSE2StateSpace() *SE2StateSpace {
	return &SE2StateSpace{}
}

// Owner returns the space that allocated the state.
func (s *SE2State) Owner() StateSpace {
	return s.owner
}

// Translation returns the translational part of the transform.
func (s *SE2State) Translation() (x, y float64) {
	return s.x, s.y
}

// Angle returns the rotational part of the transform in [-pi, pi).
func (s *SE2State) Angle() float64 {
	return s.theta
}

// Set overwrites the transform.
func (s *SE2State) Set(x, y, theta float64) {
	s.x, s.y, s.theta = x, y, utils.WrapAngle(theta)
}

// Dimension is 3.
func (se2 *SE2StateSpace) Dimension() int {
	return 3
}

// AllocateState returns the identity transform.
func (se2 *SE2StateSpace) AllocateState() (State, error) {
	se2.live.Inc()
	return &SE2State{owner: se2}, nil
}

// FreeState releases a state allocated by this space.
func (se2 *SE2StateSpace) FreeState(state State) error {
	s, ok := state.(*SE2State)
	if !ok || s.owner != se2 {
		return errors.Wrapf(ErrForeignState, "cannot free %T", state)
	}
	if s.released {
		return ErrStateReleased
	}
	s.released = true
	se2.live.Dec()
	return nil
}

// Compose writes the transform product state1 * state2 into out.
func (se2 *SE2StateSpace) Compose(state1, state2, out State) {
	a, b := se2.cast(state1), se2.cast(state2)
	sin, cos := math.Sincos(a.theta)
	x := a.x + cos*b.x - sin*b.y
	y := a.y + sin*b.x + cos*b.y
	se2.cast(out).Set(x, y, a.theta+b.theta)
}

// CopyState copies source into destination.
func (se2 *SE2StateSpace) CopyState(source, destination State) {
	src := se2.cast(source)
	se2.cast(destination).Set(src.x, src.y, src.theta)
}

// ExpMap writes the SE(2) exponential of (w, vx, vy) into out.
func (se2 *SE2StateSpace) ExpMap(tangent []float64, out State) {
	checkTangent(tangent, 3)
	w, vx, vy := tangent[0], tangent[1], tangent[2]
	a, b := leftJacobian(w)
	se2.cast(out).Set(a*vx-b*vy, b*vx+a*vy, w)
}

// LogMap writes the SE(2) logarithm of state into tangent.
func (se2 *SE2StateSpace) LogMap(state State, tangent []float64) {
	checkTangent(tangent, 3)
	s := se2.cast(state)
	a, b := leftJacobian(s.theta)
	det := a*a + b*b
	tangent[0] = s.theta
	tangent[1] = (a*s.x + b*s.y) / det
	tangent[2] = (-b*s.x + a*s.y) / det
}

// Transform is a typed accessor returning (x, y, theta) for a state of this space.
func (se2 *SE2StateSpace) Transform(state State) (x, y, theta float64) {
	s := se2.cast(state)
	return s.x, s.y, s.theta
}

// SetTransform is a typed setter for a state of this space.
func (se2 *SE2StateSpace) SetTransform(state State, x, y, theta float64) {
	se2.cast(state).Set(x, y, theta)
}

func (se2 *SE2StateSpace) String() string {
	return "SE2"
}

func (se2 *SE2StateSpace) cast(state State) *SE2State {
	s, ok := state.(*SE2State)
	if !ok || s.owner != se2 {
		foreignStatePanic(se2.String(), state)
	}
	return s
}

// leftJacobian returns the entries of V(w) = [[a, -b], [b, a]], which maps the linear part of an
// se(2) tangent onto the translation of its exponential.
func leftJacobian(w float64) (a, b float64) {
	if math.Abs(w) < smallAngle {
		return 1, w / 2
	}
	return math.Sin(w) / w, (1 - math.Cos(w)) / w
}
