package referenceframe

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/aikido/utils"
)

// Limit is a closed interval [Min, Max] on a joint position or velocity.
type Limit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the interval.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp returns v moved into the interval.
func (l Limit) Clamp(v float64) float64 {
	return utils.Clamp(v, l.Min, l.Max)
}

func (l Limit) validate() error {
	if math.IsNaN(l.Min) || math.IsNaN(l.Max) {
		return errors.Errorf("limit [%v, %v] contains NaN", l.Min, l.Max)
	}
	if l.Min > l.Max {
		return errors.Errorf("min %v is greater than max %v", l.Min, l.Max)
	}
	return nil
}
