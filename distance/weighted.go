package distance

import (
	"github.com/samber/lo"

	"go.viam.com/aikido/statespace"
)

// WeightedMetric is the weighted sum of one metric per subspace of a CompoundStateSpace.
type WeightedMetric struct {
	space   *statespace.CompoundStateSpace
	metrics []Metric
	weights []float64
}

// NewWeightedMetric pairs metric i with subspace i, each with weight 1.
func NewWeightedMetric(space *statespace.CompoundStateSpace, metrics []Metric) (*WeightedMetric, error) {
	return NewWeightedMetricWithWeights(space, metrics, lo.Times(len(metrics), func(int) float64 { return 1 }))
}

// NewWeightedMetricWithWeights pairs metric i and weight i with subspace i. The metric, weight and
// subspace counts must agree, every metric must be defined over its subspace, and weights must be
// non-negative.
func NewWeightedMetricWithWeights(
	space *statespace.CompoundStateSpace,
	metrics []Metric,
	weights []float64,
) (*WeightedMetric, error) {
	if space == nil {
		return nil, statespace.NewInvalidConfigurationError("weighted metric needs a compound state space")
	}
	if len(metrics) != space.NumSubspaces() {
		return nil, statespace.NewInvalidConfigurationError(
			"must provide a metric for every subspace in the CompoundStateSpace: %d != %d",
			len(metrics), space.NumSubspaces())
	}
	if len(weights) != len(metrics) {
		return nil, statespace.NewInvalidConfigurationError(
			"must provide a weight for every metric: %d != %d", len(weights), len(metrics))
	}
	for i, m := range metrics {
		if m == nil || m.StateSpace() != space.SubSpace(i) {
			return nil, statespace.NewInvalidConfigurationError("metric %d is not defined over subspace %d", i, i)
		}
		if weights[i] < 0 {
			return nil, statespace.NewInvalidConfigurationError("weight %d is negative: %f", i, weights[i])
		}
	}
	return &WeightedMetric{
		space:   space,
		metrics: append([]Metric(nil), metrics...),
		weights: append([]float64(nil), weights...),
	}, nil
}

// StateSpace returns the compound space.
func (wm *WeightedMetric) StateSpace() statespace.StateSpace {
	return wm.space
}

// Weights returns a copy of the per-subspace weights.
func (wm *WeightedMetric) Weights() []float64 {
	return append([]float64(nil), wm.weights...)
}

// Distance returns the sum over subspaces of weight_i * metric_i(sub(state1, i), sub(state2, i)).
func (wm *WeightedMetric) Distance(state1, state2 statespace.State) float64 {
	dist := 0.
	for i, m := range wm.metrics {
		dist += wm.weights[i] * m.Distance(wm.space.SubState(state1, i), wm.space.SubState(state2, i))
	}
	return dist
}

// Interpolate delegates to every subspace metric. out may be the same state as from or to.
func (wm *WeightedMetric) Interpolate(from, to statespace.State, t float64, out statespace.State) {
	for i, m := range wm.metrics {
		m.Interpolate(wm.space.SubState(from, i), wm.space.SubState(to, i), t, wm.space.SubState(out, i))
	}
}
