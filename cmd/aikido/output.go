package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/aikido/statespace"
	"go.viam.com/aikido/trajectory"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// sampleJSON is one line of sampled spline output.
type sampleJSON struct {
	T          float64   `json:"t"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities"`
}

// sampleSpline evaluates the spline at numSamples evenly spaced times.
func sampleSpline(spline *trajectory.Spline, space statespace.StateSpace, numSamples int) (samples []sampleJSON, err error) {
	if numSamples < 2 {
		return nil, errors.Errorf("need at least 2 samples, got %d", numSamples)
	}
	state, err := space.AllocateState()
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, space.FreeState(state))
	}()

	step := spline.Duration() / float64(numSamples-1)
	times := lo.Times(numSamples, func(i int) float64 {
		return spline.StartTime() + float64(i)*step
	})
	samples = make([]sampleJSON, 0, numSamples)
	for _, t := range times {
		if err := spline.Evaluate(t, state); err != nil {
			return nil, err
		}
		positions := make([]float64, space.Dimension())
		space.LogMap(state, positions)
		velocities, err := spline.EvaluateDerivative(t, 1)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sampleJSON{T: t, Positions: positions, Velocities: velocities})
	}
	return samples, nil
}

// jointSpeedStats returns the largest and the mean norm of the sampled joint velocities.
func jointSpeedStats(samples []sampleJSON) (peak, mean float64, err error) {
	speeds := stats.Float64Data(lo.Map(samples, func(s sampleJSON, _ int) float64 {
		return floats.Norm(s.Velocities, 2)
	}))
	peak, err = stats.Max(speeds)
	if err != nil {
		return 0, 0, err
	}
	mean, err = stats.Mean(speeds)
	if err != nil {
		return 0, 0, err
	}
	return peak, mean, nil
}

func formatFloats(values []float64) string {
	return strings.Join(lo.Map(values, func(v float64, _ int) string {
		return fmt.Sprintf("%.4f", v)
	}), ", ")
}

// writeSamples writes samples as one JSON object per line, or as a table for people to read.
func writeSamples(w io.Writer, samples []sampleJSON, format string) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(w)
		for _, s := range samples {
			if err := encoder.Encode(s); err != nil {
				return err
			}
		}
		return nil
	case formatTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.AppendHeader(table.Row{"#", "Time", "Positions", "Velocities"})
		for i, s := range samples {
			t.AppendRow(table.Row{i, fmt.Sprintf("%.4f", s.T), formatFloats(s.Positions), formatFloats(s.Velocities)})
		}
		t.Render()
		return nil
	default:
		return errors.Errorf("unknown output format %q, must be %q or %q", format, formatJSON, formatTable)
	}
}

// printSamples samples the spline, logs its joint speeds, and writes the samples to w.
func printSamples(w io.Writer, spline *trajectory.Spline, space statespace.StateSpace, numSamples int, format string) error {
	samples, err := sampleSpline(spline, space, numSamples)
	if err != nil {
		return err
	}
	peak, mean, err := jointSpeedStats(samples)
	if err != nil {
		return err
	}
	logger.Debugw("sampled spline", "samples", len(samples), "peak_joint_speed", peak, "mean_joint_speed", mean)
	return writeSamples(w, samples, format)
}
