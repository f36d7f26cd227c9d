package statespace

import (
	"github.com/pkg/errors"

	"go.viam.com/aikido/utils"
)

// SO2StateSpace is the group of planar rotations, stored as an angle in [-pi, pi).
type SO2StateSpace struct {
	allocCounter
}

// SO2State is a planar rotation.
type SO2State struct {
	owner    *SO2StateSpace
	angle    float64
	released bool
}

// NewSO2StateSpace returns a new SO(2) space.
func NewSO2StateSpace() *SO2StateSpace {
	return &SO2StateSpace{}
}

// Owner returns the space that allocated the state.
func (s *SO2State) Owner() StateSpace {
	return s.owner
}

// Angle returns the rotation angle in radians, in [-pi, pi).
func (s *SO2State) Angle() float64 {
	return s.angle
}

// SetAngle sets the rotation angle, wrapping it onto [-pi, pi).
func (s *SO2State) SetAngle(angle float64) {
	s.angle = utils.WrapAngle(angle)
}

// Dimension is 1.
func (so2 *SO2StateSpace) Dimension() int {
	return 1
}

// AllocateState returns the identity rotation.
func (so2 *SO2StateSpace) AllocateState() (State, error) {
	so2.live.Inc()
	return &SO2State{owner: so2}, nil
}

// FreeState releases a state allocated by this space.
func (so2 *SO2StateSpace) FreeState(state State) error {
	s, ok := state.(*SO2State)
	if !ok || s.owner != so2 {
		return errors.Wrapf(ErrForeignState, "cannot free %T", state)
	}
	if s.released {
		return ErrStateReleased
	}
	s.released = true
	so2.live.Dec()
	return nil
}

// Compose adds the two angles.
func (so2 *SO2StateSpace) Compose(state1, state2, out State) {
	so2.cast(out).SetAngle(so2.cast(state1).angle + so2.cast(state2).angle)
}

// CopyState copies the angle of source into destination.
func (so2 *SO2StateSpace) CopyState(source, destination State) {
	so2.cast(destination).angle = so2.cast(source).angle
}

// ExpMap interprets the single tangent coordinate as an angle.
func (so2 *SO2StateSpace) ExpMap(tangent []float64, out State) {
	checkTangent(tangent, 1)
	so2.cast(out).SetAngle(tangent[0])
}

// LogMap writes the angle of state into tangent.
func (so2 *SO2StateSpace) LogMap(state State, tangent []float64) {
	checkTangent(tangent, 1)
	tangent[0] = so2.cast(state).angle
}

// Angle is a typed accessor for a state of this space.
func (so2 *SO2StateSpace) Angle(state State) float64 {
	return so2.cast(state).angle
}

// SetAngle is a typed setter for a state of this space.
func (so2 *SO2StateSpace) SetAngle(state State, angle float64) {
	so2.cast(state).SetAngle(angle)
}

func (so2 *SO2StateSpace) String() string {
	return "SO2"
}

func (so2 *SO2StateSpace) cast(state State) *SO2State {
	s, ok := state.(*SO2State)
	if !ok || s.owner != so2 {
		foreignStatePanic(so2.String(), state)
	}
	return s
}
