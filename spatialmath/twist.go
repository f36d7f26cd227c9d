// Package spatialmath defines the spatial types used by the planners: twists, rotations and
// rigid poses.
package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// TwistDimension is the number of components of a twist.
const TwistDimension = 6

// Twist is a spatial velocity. Angular is in rad/s and Linear in m/s, both expressed in the world
// frame.
type Twist struct {
	Angular r3.Vector `json:"angular"`
	Linear  r3.Vector `json:"linear"`
}

// NewTwistFromVector builds a twist from a 6-vector laid out as (wx, wy, wz, vx, vy, vz).
func NewTwistFromVector(v []float64) (Twist, error) {
	if len(v) != TwistDimension {
		return Twist{}, errors.Errorf("twist needs %d components, got %d", TwistDimension, len(v))
	}
	return Twist{
		Angular: r3.Vector{X: v[0], Y: v[1], Z: v[2]},
		Linear:  r3.Vector{X: v[3], Y: v[4], Z: v[5]},
	}, nil
}

// Vector returns the twist as (wx, wy, wz, vx, vy, vz), the row order of a world Jacobian.
func (t Twist) Vector() []float64 {
	return []float64{t.Angular.X, t.Angular.Y, t.Angular.Z, t.Linear.X, t.Linear.Y, t.Linear.Z}
}

// Add returns the component-wise sum of two twists.
func (t Twist) Add(o Twist) Twist {
	return Twist{Angular: t.Angular.Add(o.Angular), Linear: t.Linear.Add(o.Linear)}
}

// Mul scales both components of the twist.
func (t Twist) Mul(s float64) Twist {
	return Twist{Angular: t.Angular.Mul(s), Linear: t.Linear.Mul(s)}
}

// Norm returns the Euclidean norm of the 6-vector.
func (t Twist) Norm() float64 {
	return r3.Vector{X: t.Angular.Norm(), Y: t.Linear.Norm()}.Norm()
}

func (t Twist) String() string {
	return fmt.Sprintf("Twist{angular: %v, linear: %v}", t.Angular, t.Linear)
}
