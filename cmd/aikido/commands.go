package main

import (
	"encoding/json"
	"os"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/aikido/logging"
	"go.viam.com/aikido/optimizer"
	"go.viam.com/aikido/planner/vectorfield"
	"go.viam.com/aikido/referenceframe"
	"go.viam.com/aikido/spatialmath"
	"go.viam.com/aikido/statespace"
)

// knotJSON is one knot of a fit input file.
type knotJSON struct {
	T          float64   `json:"t"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities"`
}

type knotsFileJSON struct {
	Knots []knotJSON `json:"knots"`
}

func readJSONFile(path string, v interface{}) error {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read file")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %q", path)
	}
	return nil
}

// readPlannerConfig overlays the file at path, if any, on the default planner config.
func readPlannerConfig(path string) (vectorfield.Config, error) {
	cfg := vectorfield.DefaultConfig()
	if path != "" {
		if err := readJSONFile(path, &cfg); err != nil {
			return vectorfield.Config{}, err
		}
	}
	if err := cfg.Validate(flagPlannerConfig); err != nil {
		return vectorfield.Config{}, err
	}
	return cfg, nil
}

func newSolver(name string) (optimizer.Solver, error) {
	switch name {
	case solverGonum:
		return optimizer.NewGonumSolver(optimizer.Options{}, logger.Sublogger(solverGonum)), nil
	case solverNlopt:
		return optimizer.NewNloptSolver(optimizer.Options{}, logger.Sublogger(solverNlopt)), nil
	default:
		return nil, errors.Errorf("unknown solver %q, must be %q or %q", name, solverGonum, solverNlopt)
	}
}

// loadModel parses the model file and moves it to the requested positions. It also returns the
// body to move.
func loadModel(c *cli.Context) (*referenceframe.Model, string, error) {
	model, err := referenceframe.ParseModelJSONFile(c.Path(flagModel), "")
	if err != nil {
		return nil, "", err
	}
	if positions := c.Float64Slice(flagPositions); len(positions) > 0 {
		if err := model.SetPositions(positions); err != nil {
			return nil, "", err
		}
	}
	body := c.String(flagBody)
	if body == "" {
		body = model.EndEffector()
	}
	return model, body, nil
}

// FitAction fits a spline through the knots of a JSON file and prints samples of it.
func FitAction(c *cli.Context) (err error) {
	var file knotsFileJSON
	if err := readJSONFile(c.Path(flagKnots), &file); err != nil {
		return err
	}
	if len(file.Knots) == 0 {
		return errors.New("knots file has no knots")
	}

	knots := make([]vectorfield.Knot, 0, len(file.Knots))
	for i, k := range file.Knots {
		knot, err := vectorfield.NewKnot(k.T, k.Positions, k.Velocities)
		if err != nil {
			return errors.Wrapf(err, "knot %d", i)
		}
		knots = append(knots, knot)
	}

	space, err := statespace.NewRealVectorStateSpace(len(file.Knots[0].Positions))
	if err != nil {
		return err
	}
	spline, err := vectorfield.ConvertToSpline(knots, len(knots), space)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, spline.Release())
	}()
	if spline.NumSegments() == 0 {
		// A single knot is a valid fit with no motion; there is nothing to sample.
		logger.Infow("no motion to fit", "knots", len(knots))
		return nil
	}
	logger.Debugw("fit spline", "segments", spline.NumSegments(), "duration", spline.Duration())
	return printSamples(c.App.Writer, spline, space, c.Int(flagSamples), c.String(flagFormat))
}

// TwistAction prints the joint velocity that best tracks a twist of a body.
func TwistAction(c *cli.Context) error {
	model, body, err := loadModel(c)
	if err != nil {
		return err
	}
	twist, err := spatialmath.NewTwistFromVector(c.Float64Slice(flagTwist))
	if err != nil {
		return err
	}
	cfg, err := readPlannerConfig(c.Path(flagPlannerConfig))
	if err != nil {
		return err
	}
	solver, err := newSolver(c.String(flagSolver))
	if err != nil {
		return err
	}

	qd, err := vectorfield.ComputeJointVelocityFromTwist(
		c.Context, twist, model, body, cfg.OptimizationTolerance, cfg.Timestep, cfg.Padding, solver)
	if err != nil {
		return err
	}
	return json.NewEncoder(c.App.Writer).Encode(map[string][]float64{"joint_velocities": qd})
}

// PlanAction plans a straight-line motion and prints samples of the planned spline.
func PlanAction(c *cli.Context) (err error) {
	model, body, err := loadModel(c)
	if err != nil {
		return err
	}
	direction := c.Float64Slice(flagDirection)
	if len(direction) != 3 {
		return errors.Errorf("direction needs 3 values, got %d", len(direction))
	}
	lineCfg := vectorfield.StraightLineConfig{
		Direction:         r3.Vector{X: direction[0], Y: direction[1], Z: direction[2]},
		MinDistance:       c.Float64(flagMinDistance),
		MaxDistance:       c.Float64(flagMaxDistance),
		Speed:             c.Float64(flagSpeed),
		PositionTolerance: c.Float64(flagPosTolerance),
		AngularTolerance:  c.Float64(flagRotTolerance),
	}
	field, err := vectorfield.NewStraightLineField(model, body, lineCfg)
	if err != nil {
		return err
	}

	cfg, err := readPlannerConfig(c.Path(flagPlannerConfig))
	if err != nil {
		return err
	}
	solver, err := newSolver(c.String(flagSolver))
	if err != nil {
		return err
	}
	space, err := model.StateSpace()
	if err != nil {
		return err
	}
	planner, err := vectorfield.NewPlanner(model, space, body, cfg, solver, logger.Sublogger("vectorfield"))
	if err != nil {
		return err
	}

	planID := uuid.NewString()
	ctx := c.Context
	if c.Bool(flagTrace) {
		ctx = logging.EnableDebugMode(ctx, planID)
	}
	spline, err := planner.Plan(ctx, field)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, spline.Release())
	}()
	if spline.NumSegments() == 0 {
		return errors.Errorf("no motion of at least %v along %v found for %s", lineCfg.MinDistance, lineCfg.Direction, body)
	}
	logger.Infow("planned straight line", "plan_id", planID, "field", field.String(),
		"segments", spline.NumSegments(), "duration", spline.Duration())
	return printSamples(c.App.Writer, spline, space, c.Int(flagSamples), c.String(flagFormat))
}

var schemaKinds = map[string]*jsonschema.Schema{
	schemaModel:   jsonschema.Reflect(&referenceframe.ModelConfigJSON{}),
	schemaPlanner: jsonschema.Reflect(&vectorfield.Config{}),
	schemaLine:    jsonschema.Reflect(&vectorfield.StraightLineConfig{}),
}

// SchemaAction prints the JSON schema of one of the input files.
func SchemaAction(c *cli.Context) error {
	kind := c.String(flagKind)
	schema, ok := schemaKinds[kind]
	if !ok {
		return errors.Errorf("unknown schema kind %q, must be one of %q", kind, []string{schemaModel, schemaPlanner, schemaLine})
	}
	encoder := json.NewEncoder(c.App.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(schema)
}
