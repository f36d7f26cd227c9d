package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// DefaultVelocityLimit bounds the speed of joints whose config omits a velocity limit.
var DefaultVelocityLimit = Limit{Min: -1, Max: 1}

// JointConfig describes one joint of a serial chain.
type JointConfig struct {
	ID   string    `json:"id"`
	Type JointType `json:"type"`
	Axis r3.Vector `json:"axis"`
	// Offset is the translation from the previous body to this joint, in the previous body's frame.
	Offset   r3.Vector `json:"offset"`
	Position Limit     `json:"position_limit"`
	Velocity *Limit    `json:"velocity_limit,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *JointConfig) Validate(path string) error {
	if cfg.ID == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "id")
	}
	switch cfg.Type {
	case RevoluteJoint, PrismaticJoint:
	case "":
		return utils.NewConfigValidationFieldRequiredError(path, "type")
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unsupported joint type %q", cfg.Type))
	}
	if cfg.Axis.Norm() == 0 {
		return utils.NewConfigValidationError(path, errors.New("axis must be non-zero"))
	}
	if err := cfg.Position.validate(); err != nil {
		return utils.NewConfigValidationError(fmt.Sprintf("%s.position_limit", path), err)
	}
	if cfg.Velocity != nil {
		if err := cfg.Velocity.validate(); err != nil {
			return utils.NewConfigValidationError(fmt.Sprintf("%s.velocity_limit", path), err)
		}
	}
	return nil
}

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name              string        `json:"name"`
	Joints            []JointConfig `json:"joints"`
	EndEffector       string        `json:"end_effector,omitempty"`
	EndEffectorOffset r3.Vector     `json:"end_effector_offset"`
}

// Validate ensures all parts of the config are valid.
func (cfg *ModelConfigJSON) Validate(path string) error {
	if len(cfg.Joints) == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "joints")
	}
	seen := map[string]bool{}
	for idx := range cfg.Joints {
		jointPath := fmt.Sprintf("%s.%s.%d", path, "joints", idx)
		if err := cfg.Joints[idx].Validate(jointPath); err != nil {
			return err
		}
		if seen[cfg.Joints[idx].ID] {
			return utils.NewConfigValidationError(jointPath, errors.Errorf("duplicate joint id %q", cfg.Joints[idx].ID))
		}
		seen[cfg.Joints[idx].ID] = true
	}
	if seen[cfg.endEffectorName()] {
		return utils.NewConfigValidationError(path, errors.Errorf("end effector %q shares a name with a joint", cfg.endEffectorName()))
	}
	return nil
}

func (cfg *ModelConfigJSON) endEffectorName() string {
	if cfg.EndEffector == "" {
		return DefaultEndEffector
	}
	return cfg.EndEffector
}

// ParseConfig converts the config into a Model named modelName, or cfg.Name if modelName is empty.
// All joints start at position zero.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if err := cfg.Validate("model"); err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = cfg.Name
	}

	model := &Model{
		name:              modelName,
		endEffector:       cfg.endEffectorName(),
		endEffectorOffset: cfg.EndEffectorOffset,
		positions:         make([]float64, len(cfg.Joints)),
	}
	for _, jc := range cfg.Joints {
		velocity := DefaultVelocityLimit
		if jc.Velocity != nil {
			velocity = *jc.Velocity
		}
		model.joints = append(model.joints, joint{
			name:     jc.ID,
			kind:     jc.Type,
			axis:     jc.Axis,
			offset:   jc.Offset,
			position: jc.Position,
			velocity: velocity,
		})
	}
	return model, nil
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}
