package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation is a unit quaternion.
type Rotation quat.Number

// NewZeroRotation returns the identity rotation.
func NewZeroRotation() Rotation {
	return Rotation{Real: 1}
}

// NewRotationFromAxisAngle returns the rotation of theta radians about axis. The axis need not be
// normalized; a zero axis gives the identity.
func NewRotationFromAxisAngle(axis r3.Vector, theta float64) Rotation {
	norm := axis.Norm()
	if norm == 0 {
		return NewZeroRotation()
	}
	axis = axis.Mul(1 / norm)
	s := math.Sin(theta / 2)
	return Rotation{Real: math.Cos(theta / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// Quaternion returns the rotation as a gonum quaternion.
func (r Rotation) Quaternion() quat.Number {
	return quat.Number(r)
}

// Compose returns the rotation r followed by o in r's frame, i.e. r*o.
func (r Rotation) Compose(o Rotation) Rotation {
	return Rotation(quat.Mul(quat.Number(r), quat.Number(o)))
}

// Inverse returns the opposite rotation.
func (r Rotation) Inverse() Rotation {
	return Rotation(quat.Conj(quat.Number(r)))
}

// Rotate applies the rotation to a vector.
func (r Rotation) Rotate(v r3.Vector) r3.Vector {
	q := quat.Number(r)
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// AxisAngle returns a unit axis and an angle in [0, pi] equivalent to the rotation. The identity
// returns the X axis and zero.
func (r Rotation) AxisAngle() (r3.Vector, float64) {
	q := quat.Number(r)
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	axis := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	sinHalf := axis.Norm()
	if sinHalf < 1e-12 {
		return r3.Vector{X: 1}, 0
	}
	return axis.Mul(1 / sinHalf), 2 * math.Atan2(sinHalf, q.Real)
}

// RotationVector returns axis*angle.
func (r Rotation) RotationVector() r3.Vector {
	axis, theta := r.AxisAngle()
	return axis.Mul(theta)
}
