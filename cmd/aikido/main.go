// Package main is the aikido command line tool.
package main

import (
	"os"

	"github.com/urfave/cli/v2"
	"go.viam.com/utils"

	"go.viam.com/aikido/logging"
)

const (
	// Flags.
	flagDebug         = "debug"
	flagLogFile       = "log-file"
	flagFormat        = "format"
	flagTrace         = "trace"
	flagKind          = "kind"
	flagKnots         = "knots"
	flagSamples       = "samples"
	flagModel         = "model"
	flagBody          = "body"
	flagPositions     = "positions"
	flagTwist         = "twist"
	flagSolver        = "solver"
	flagPlannerConfig = "planner-config"
	flagDirection     = "direction"
	flagMinDistance   = "min-distance"
	flagMaxDistance   = "max-distance"
	flagSpeed         = "speed"
	flagPosTolerance  = "position-tolerance"
	flagRotTolerance  = "angular-tolerance"

	solverGonum = "gonum"
	solverNlopt = "nlopt"

	schemaModel   = "model"
	schemaPlanner = "planner"
	schemaLine    = "line"

	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

var (
	logger  = logging.NewLogger("aikido")
	logFile *logging.FileAppender
)

func newApp() *cli.App {
	modelFlags := []cli.Flag{
		&cli.PathFlag{
			Name:     flagModel,
			Aliases:  []string{"m"},
			Required: true,
			Usage:    "load the robot model from JSON `FILE`",
		},
		&cli.StringFlag{
			Name:  flagBody,
			Usage: "body to move, defaults to the model's end effector",
		},
		&cli.Float64SliceFlag{
			Name:  flagPositions,
			Usage: "starting joint positions, defaults to all zeros",
		},
		&cli.StringFlag{
			Name:  flagSolver,
			Value: solverGonum,
			Usage: "optimizer used to track twists, one of gonum or nlopt",
		},
	}

	formatFlag := &cli.StringFlag{
		Name:  flagFormat,
		Value: formatJSON,
		Usage: "sample output format, one of json or table",
	}

	return &cli.App{
		Name:  "aikido",
		Usage: "fit splines and plan vector-field motions for serial robots",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.PathFlag{
				Name:  flagLogFile,
				Usage: "also write logs to `FILE`, rotating it as it grows",
			},
		},
		Before: func(c *cli.Context) error {
			logger = logging.NewLogger("aikido")
			if c.Bool(flagDebug) {
				logger.SetLevel(logging.DEBUG)
			}
			if path := c.Path(flagLogFile); path != "" {
				logFile = logging.NewFileAppender(path, logFileMaxSizeMB, logFileMaxBackups)
				logger.AddAppender(logFile)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if logFile == nil {
				return nil
			}
			err := logFile.Close()
			logFile = nil
			return err
		},
		Commands: []*cli.Command{
			{
				Name:      "fit",
				Usage:     "fit a cubic spline through position and velocity knots and sample it",
				UsageText: "aikido fit --knots <file> [--samples <n>]",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     flagKnots,
						Required: true,
						Usage:    "read knots from JSON `FILE`",
					},
					&cli.IntFlag{
						Name:  flagSamples,
						Value: 11,
						Usage: "number of evenly spaced samples to print",
					},
					formatFlag,
				},
				Action: FitAction,
			},
			{
				Name:      "twist",
				Usage:     "find the joint velocity that best produces a body twist",
				UsageText: "aikido twist --model <file> --twist wx,wy,wz,vx,vy,vz [other options]",
				Flags: append([]cli.Flag{
					&cli.Float64SliceFlag{
						Name:     flagTwist,
						Required: true,
						Usage:    "desired twist, angular then linear",
					},
					&cli.PathFlag{
						Name:  flagPlannerConfig,
						Usage: "read planner settings from JSON `FILE`",
					},
				}, modelFlags...),
				Action: TwistAction,
			},
			{
				Name:      "plan",
				Usage:     "plan a straight-line motion of a body and sample the resulting spline",
				UsageText: "aikido plan --model <file> --direction x,y,z --max-distance <m> [other options]",
				Flags: append([]cli.Flag{
					&cli.Float64SliceFlag{
						Name:     flagDirection,
						Required: true,
						Usage:    "direction of motion in the world frame",
					},
					&cli.Float64Flag{
						Name:  flagMinDistance,
						Usage: "shortest acceptable motion in meters",
					},
					&cli.Float64Flag{
						Name:     flagMaxDistance,
						Required: true,
						Usage:    "longest motion in meters",
					},
					&cli.Float64Flag{
						Name:  flagSpeed,
						Value: 0.1,
						Usage: "linear speed in m/s",
					},
					&cli.Float64Flag{
						Name:  flagPosTolerance,
						Value: 0.01,
						Usage: "largest distance from the line in meters",
					},
					&cli.Float64Flag{
						Name:  flagRotTolerance,
						Value: 0.1,
						Usage: "largest rotation away from the starting orientation in radians",
					},
					&cli.PathFlag{
						Name:  flagPlannerConfig,
						Usage: "read planner settings from JSON `FILE`",
					},
					&cli.IntFlag{
						Name:  flagSamples,
						Value: 11,
						Usage: "number of evenly spaced samples to print",
					},
					&cli.BoolFlag{
						Name:  flagTrace,
						Usage: "log the planner's debug output for this plan whatever the log level",
					},
					formatFlag,
				}, modelFlags...),
				Action: PlanAction,
			},
			{
				Name:      "schema",
				Usage:     "print the JSON schema of an input file",
				UsageText: "aikido schema --kind model|planner|line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagKind,
						Value: schemaModel,
						Usage: "input to describe, one of model, planner or line",
					},
				},
				Action: SchemaAction,
			},
		},
	}
}

func main() {
	defer func() {
		utils.UncheckedError(logger.Sync())
	}()
	if err := newApp().Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}
