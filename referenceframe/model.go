// Package referenceframe models serial kinematic chains: their joints, limits, forward kinematics
// and world Jacobians.
package referenceframe

import (
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/aikido/spatialmath"
	"go.viam.com/aikido/statespace"
)

// DefaultEndEffector is the body name of the tip of a chain when the config does not name one.
const DefaultEndEffector = "end_effector"

// JointType is the kind of motion a joint allows.
type JointType string

const (
	// RevoluteJoint rotates about its axis; positions are in radians.
	RevoluteJoint JointType = "revolute"
	// PrismaticJoint translates along its axis; positions are in meters.
	PrismaticJoint JointType = "prismatic"
)

// NewUnknownBodyError returns an error for a body name that is not part of the model.
func NewUnknownBodyError(model, body string) error {
	return errors.Errorf("model %q has no body named %q", model, body)
}

// NewIncorrectDoFError returns an error for an input slice of the wrong length.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of positions given (%d) does not match the number of degrees of freedom (%d)", actual, expected)
}

type joint struct {
	name     string
	kind     JointType
	axis     r3.Vector
	offset   r3.Vector
	position Limit
	velocity Limit
}

// Model is a serial chain of single degree of freedom joints rooted at the world origin. Body i is
// the frame attached after joint i; the end effector is a fixed offset from the last body.
//
// A Model holds its current joint positions, so it can be handed to a planner as the robot it is
// driving.
type Model struct {
	name              string
	joints            []joint
	endEffector       string
	endEffectorOffset r3.Vector

	mu        sync.RWMutex
	positions []float64
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// NumDofs returns the number of joints.
func (m *Model) NumDofs() int {
	return len(m.joints)
}

// BodyNames returns the bodies whose Jacobian can be queried, base first.
func (m *Model) BodyNames() []string {
	names := lo.Map(m.joints, func(j joint, _ int) string { return j.name })
	return append(names, m.endEffector)
}

// EndEffector returns the name of the tip body.
func (m *Model) EndEffector() string {
	return m.endEffector
}

// Positions returns a copy of the current joint positions.
func (m *Model) Positions() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.positions...)
}

// SetPositions replaces the current joint positions. Positions outside the joint limits are
// accepted; callers that care check them with PositionLowerLimits and PositionUpperLimits.
func (m *Model) SetPositions(positions []float64) error {
	if len(positions) != len(m.joints) {
		return NewIncorrectDoFError(len(positions), len(m.joints))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.positions, positions)
	return nil
}

// PositionLimits returns the position limit of every joint.
func (m *Model) PositionLimits() []Limit {
	return lo.Map(m.joints, func(j joint, _ int) Limit { return j.position })
}

// VelocityLimits returns the velocity limit of every joint.
func (m *Model) VelocityLimits() []Limit {
	return lo.Map(m.joints, func(j joint, _ int) Limit { return j.velocity })
}

// PositionLowerLimits returns the lower position limit of every joint.
func (m *Model) PositionLowerLimits() []float64 {
	return lo.Map(m.joints, func(j joint, _ int) float64 { return j.position.Min })
}

// PositionUpperLimits returns the upper position limit of every joint.
func (m *Model) PositionUpperLimits() []float64 {
	return lo.Map(m.joints, func(j joint, _ int) float64 { return j.position.Max })
}

// VelocityLowerLimits returns the lower velocity limit of every joint.
func (m *Model) VelocityLowerLimits() []float64 {
	return lo.Map(m.joints, func(j joint, _ int) float64 { return j.velocity.Min })
}

// VelocityUpperLimits returns the upper velocity limit of every joint.
func (m *Model) VelocityUpperLimits() []float64 {
	return lo.Map(m.joints, func(j joint, _ int) float64 { return j.velocity.Max })
}

// bodyIndex returns the 1-based position of body in BodyNames, or -1 if there is no such body. The
// end effector comes after the last joint body.
func (m *Model) bodyIndex(body string) int {
	if body == m.endEffector {
		return len(m.joints) + 1
	}
	for i, j := range m.joints {
		if j.name == body {
			return i + 1
		}
	}
	return -1
}

// chain walks the joints at the given positions. For every joint it records the world pose of the
// joint frame before its own motion, and it returns the world pose of every body plus the end
// effector.
func (m *Model) chain(positions []float64) (jointFrames, bodies []spatialmath.Pose) {
	jointFrames = make([]spatialmath.Pose, len(m.joints))
	bodies = make([]spatialmath.Pose, 0, len(m.joints)+1)
	current := spatialmath.NewZeroPose()
	for i, j := range m.joints {
		current = current.Compose(spatialmath.NewPose(j.offset, spatialmath.NewZeroRotation()))
		jointFrames[i] = current
		switch j.kind {
		case RevoluteJoint:
			current = current.Compose(spatialmath.NewPose(r3.Vector{}, spatialmath.NewRotationFromAxisAngle(j.axis, positions[i])))
		case PrismaticJoint:
			current = current.Compose(spatialmath.NewPose(j.axis.Mul(positions[i]), spatialmath.NewZeroRotation()))
		}
		bodies = append(bodies, current)
	}
	bodies = append(bodies, current.Compose(spatialmath.NewPose(m.endEffectorOffset, spatialmath.NewZeroRotation())))
	return jointFrames, bodies
}

// Transform returns the world pose of body at the given joint positions.
func (m *Model) Transform(positions []float64, body string) (spatialmath.Pose, error) {
	if len(positions) != len(m.joints) {
		return spatialmath.Pose{}, NewIncorrectDoFError(len(positions), len(m.joints))
	}
	idx := m.bodyIndex(body)
	if idx < 1 {
		return spatialmath.Pose{}, NewUnknownBodyError(m.name, body)
	}
	_, bodies := m.chain(positions)
	return bodies[idx-1], nil
}

// WorldJacobian returns the 6 x NumDofs geometric Jacobian of body at the current positions,
// expressed in the world frame at the body origin. Rows 0-2 are angular velocity and rows 3-5
// linear velocity. Joints downstream of body have zero columns.
func (m *Model) WorldJacobian(body string) (*mat.Dense, error) {
	idx := m.bodyIndex(body)
	if idx < 1 {
		return nil, NewUnknownBodyError(m.name, body)
	}

	jointFrames, bodies := m.chain(m.Positions())
	point := bodies[idx-1].Point
	jac := mat.NewDense(spatialmath.TwistDimension, len(m.joints), nil)
	for i := 0; i < idx && i < len(m.joints); i++ {
		j := m.joints[i]
		axis := jointFrames[i].Orientation.Rotate(j.axis.Normalize())
		var column spatialmath.Twist
		switch j.kind {
		case RevoluteJoint:
			column = spatialmath.Twist{Angular: axis, Linear: axis.Cross(point.Sub(jointFrames[i].Point))}
		case PrismaticJoint:
			column = spatialmath.Twist{Linear: axis}
		}
		jac.SetCol(i, column.Vector())
	}
	return jac, nil
}

// StateSpace returns a compound space with one R^1 subspace per joint.
func (m *Model) StateSpace() (*statespace.CompoundStateSpace, error) {
	subspaces := make([]statespace.StateSpace, 0, len(m.joints))
	for range m.joints {
		r1, err := statespace.NewRealVectorStateSpace(1)
		if err != nil {
			return nil, err
		}
		subspaces = append(subspaces, r1)
	}
	return statespace.NewCompoundStateSpace(subspaces...)
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{name: %s, dofs: %d, end_effector: %s}", m.name, len(m.joints), m.endEffector)
}
