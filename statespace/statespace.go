// Package statespace defines spaces of robot configurations and the opaque states they allocate.
//
// A State is only ever created and destroyed by the StateSpace that allocated it. Per-state
// operations (Compose, CopyState, ExpMap, LogMap) panic when handed a state owned by a different
// space, mirroring how gonum panics on mismatched matrix shapes; allocation and release report
// failures as errors.
package statespace

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

var (
	// ErrInvalidConfiguration is wrapped by every construction-time error in aikido, e.g. a
	// compound space paired with the wrong number of constraints or metrics.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrForeignState is returned when a state is handed to a space that did not allocate it.
	ErrForeignState = errors.New("state was not allocated by this state space")
	// ErrStateReleased is returned when a state is freed twice.
	ErrStateReleased = errors.New("state has already been released")
)

// NewInvalidConfigurationError returns an error wrapping ErrInvalidConfiguration.
func NewInvalidConfigurationError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfiguration, format, args...)
}

// State is an opaque point in a StateSpace.
type State interface {
	// Owner returns the space that allocated the state.
	Owner() StateSpace
}

// StateSpace is a space of configurations that owns the memory of its states.
type StateSpace interface {
	// AllocateState creates a new state owned by this space.
	AllocateState() (State, error)
	// FreeState releases a state previously returned by AllocateState.
	FreeState(state State) error
	// Compose writes the group composition state1 * state2 into out. Whether out may alias
	// state1 or state2 is up to the space; all spaces in this package allow it.
	Compose(state1, state2, out State)
	// CopyState copies source into destination.
	CopyState(source, destination State)
	// Dimension is the length of the tangent vectors used by ExpMap and LogMap.
	Dimension() int
	// ExpMap writes the exponential map of a tangent vector into out.
	ExpMap(tangent []float64, out State)
	// LogMap writes the logarithmic map of state into tangent.
	LogMap(state State, tangent []float64)
}

// allocCounter tracks the number of states a space has allocated but not yet freed.
type allocCounter struct {
	live atomic.Int64
}

// NumAllocatedStates returns how many states are currently outstanding.
func (c *allocCounter) NumAllocatedStates() int64 {
	return c.live.Load()
}

func checkTangent(tangent []float64, dimension int) {
	if len(tangent) != dimension {
		panic(fmt.Sprintf("tangent vector has length %d, expected %d", len(tangent), dimension))
	}
}

func foreignStatePanic(space string, state State) {
	panic(errors.Wrapf(ErrForeignState, "%s cannot operate on %T", space, state))
}
