package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose is a rigid transform: a rotation followed by a translation.
type Pose struct {
	Point       r3.Vector
	Orientation Rotation
}

// NewZeroPose returns the identity pose.
func NewZeroPose() Pose {
	return Pose{Orientation: NewZeroRotation()}
}

// NewPose returns a pose at point with the given orientation.
func NewPose(point r3.Vector, orientation Rotation) Pose {
	return Pose{Point: point, Orientation: orientation}
}

// Compose returns p followed by o expressed in p's frame.
func (p Pose) Compose(o Pose) Pose {
	return Pose{
		Point:       p.Point.Add(p.Orientation.Rotate(o.Point)),
		Orientation: p.Orientation.Compose(o.Orientation),
	}
}

// Transform maps a point from the pose's frame into the parent frame.
func (p Pose) Transform(v r3.Vector) r3.Vector {
	return p.Point.Add(p.Orientation.Rotate(v))
}

// Inverse returns the pose that undoes p.
func (p Pose) Inverse() Pose {
	inv := p.Orientation.Inverse()
	return Pose{Point: inv.Rotate(p.Point).Mul(-1), Orientation: inv}
}

// PoseDelta returns the twist that moves from `from` to `to` in unit time, angular part first.
func PoseDelta(from, to Pose) Twist {
	return Twist{
		Angular: to.Orientation.Compose(from.Orientation.Inverse()).RotationVector(),
		Linear:  to.Point.Sub(from.Point),
	}
}

// PoseAlmostEqual reports whether two poses agree within epsilon in translation and rotation.
func PoseAlmostEqual(a, b Pose, epsilon float64) bool {
	delta := PoseDelta(a, b)
	return delta.Linear.Norm() <= epsilon && delta.Angular.Norm() <= epsilon
}

func (p Pose) String() string {
	axis, theta := p.Orientation.AxisAngle()
	return fmt.Sprintf("Pose{point: %v, axis: %v, theta: %.4f}", p.Point, axis, theta)
}
