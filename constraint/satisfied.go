package constraint

import "go.viam.com/aikido/statespace"

// Satisfied is a Testable that accepts every state of its space.
type Satisfied struct {
	space statespace.StateSpace
}

// NewSatisfied returns a constraint over space that is always satisfied.
func NewSatisfied(space statespace.StateSpace) *Satisfied {
	return &Satisfied{space: space}
}

// StateSpace returns the space the constraint is defined over.
func (s *Satisfied) StateSpace() statespace.StateSpace {
	return s.space
}

// IsSatisfied always returns true.
func (s *Satisfied) IsSatisfied(statespace.State) bool {
	return true
}
