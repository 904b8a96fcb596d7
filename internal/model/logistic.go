// Package model provides the pathogenicity classifier: a logistic regression
// trained on the feature table and persisted as a schema-versioned artifact.
package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/labauto/pathovar/internal/feature"
	"github.com/labauto/pathovar/internal/table"
)

// DefaultThreshold is the probability cutoff for calling a variant pathogenic.
const DefaultThreshold = 0.5

// LogisticModel is a trained binary classifier. The embedded schema version
// and feature list pin the exact extractor output the model was fitted
// against; CheckSchema must pass before any call to PredictProba.
//
// Means and Stds double as the NaN-imputation and standardization parameters
// learned at train time, so serving applies the identical fill path.
type LogisticModel struct {
	SchemaVersion string    `json:"schema_version"`
	Features      []string  `json:"features"`
	Means         []float64 `json:"means"`
	Stds          []float64 `json:"stds"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`
	Threshold     float64   `json:"threshold"`
}

// TrainOptions configures the fit.
type TrainOptions struct {
	Epochs       int     // gradient descent epochs; 0 means 300
	LearningRate float64 // 0 means 0.1
	L2           float64 // L2 regularization strength
	Threshold    float64 // decision threshold; 0 means DefaultThreshold
}

// SingleClassLabelError reports a training set whose label column has fewer
// than two distinct classes, with the observed distribution attached.
type SingleClassLabelError struct {
	Distribution map[int]int
}

func (e *SingleClassLabelError) Error() string {
	keys := make([]int, 0, len(e.Distribution))
	for k := range e.Distribution {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	s := "training labels have fewer than two classes: observed"
	for _, k := range keys {
		s += fmt.Sprintf(" label=%d n=%d", k, e.Distribution[k])
	}
	return s
}

// Train fits a class-balanced logistic regression on a labeled feature table.
// Refuses to fit a degenerate model when the label column is single-class.
func Train(t *table.Table, opts TrainOptions) (*LogisticModel, error) {
	if !t.Labeled {
		return nil, fmt.Errorf("feature table has no label column")
	}
	return fit(t.Schema, t.Matrix(), t.Labels(), opts)
}

func fit(schema feature.Schema, x [][]float64, y []int, opts TrainOptions) (*LogisticModel, error) {
	dist := labelDistribution(y)
	if len(dist) < 2 {
		return nil, &SingleClassLabelError{Distribution: dist}
	}

	epochs := opts.Epochs
	if epochs == 0 {
		epochs = 300
	}
	lr := opts.LearningRate
	if lr == 0 {
		lr = 0.1
	}
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	m := &LogisticModel{
		SchemaVersion: schema.Version,
		Features:      schema.FeatureNames(),
		Threshold:     threshold,
	}

	n, d := len(x), schema.NumFeatures()
	m.Means, m.Stds = fitScaler(x, d)
	scaled := make([][]float64, n)
	for i, row := range x {
		scaled[i] = m.scale(row)
	}

	// Balanced class weights: w_c = n / (2 * n_c)
	wPos := float64(n) / (2 * float64(dist[1]))
	wNeg := float64(n) / (2 * float64(dist[0]))

	m.Weights = make([]float64, d)
	grad := make([]float64, d)
	for epoch := 0; epoch < epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i, row := range scaled {
			p := sigmoid(floats.Dot(m.Weights, row) + m.Bias)
			w := wNeg
			if y[i] == 1 {
				w = wPos
			}
			residual := w * (p - float64(y[i]))
			floats.AddScaled(grad, residual, row)
			gradBias += residual
		}

		scale := lr / float64(n)
		if opts.L2 > 0 {
			floats.AddScaled(grad, opts.L2, m.Weights)
		}
		floats.AddScaled(m.Weights, -scale, grad)
		m.Bias -= scale * gradBias
	}

	return m, nil
}

// CheckSchema verifies the model against the active extractor schema.
// Returns a *feature.SchemaMismatchError on divergence.
func (m *LogisticModel) CheckSchema(schema feature.Schema) error {
	return schema.Check(m.SchemaVersion, m.Features)
}

// PredictProba returns the per-row pathogenicity probability for a numeric
// feature matrix in schema column order.
func (m *LogisticModel) PredictProba(x [][]float64) []float64 {
	probs := make([]float64, len(x))
	for i, row := range x {
		probs[i] = sigmoid(floats.Dot(m.Weights, m.scale(row)) + m.Bias)
	}
	return probs
}

// scale imputes NaN entries to the training-time column mean and
// standardizes. This is the only fill path; training and serving share it.
func (m *LogisticModel) scale(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		if math.IsNaN(v) {
			v = m.Means[j]
		}
		out[j] = (v - m.Means[j]) / m.Stds[j]
	}
	return out
}

// fitScaler computes per-column means over non-NaN entries and the matching
// standard deviations. All-NaN or constant columns get mean 0 / std 1 so
// they scale to zero instead of propagating NaN.
func fitScaler(x [][]float64, d int) (means, stds []float64) {
	means = make([]float64, d)
	stds = make([]float64, d)
	counts := make([]int, d)

	for _, row := range x {
		for j, v := range row {
			if !math.IsNaN(v) {
				means[j] += v
				counts[j]++
			}
		}
	}
	for j := range means {
		if counts[j] > 0 {
			means[j] /= float64(counts[j])
		}
	}

	for _, row := range x {
		for j, v := range row {
			if !math.IsNaN(v) {
				diff := v - means[j]
				stds[j] += diff * diff
			}
		}
	}
	for j := range stds {
		if counts[j] > 1 {
			stds[j] = math.Sqrt(stds[j] / float64(counts[j]))
		}
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	return means, stds
}

func labelDistribution(y []int) map[int]int {
	dist := make(map[int]int)
	for _, label := range y {
		dist[label]++
	}
	return dist
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
