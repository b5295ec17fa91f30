// Package agg computes derived metrics from score vectors and the catalogue.
package agg

import (
	"errors"
	"fmt"
	"math"

	"github.com/huangsam/vmfs/schema"
)

// weightTolerance is the allowed deviation of a weight sum from 1.0.
const weightTolerance = 0.001

// ErrInvalidWeights is returned when weights do not describe a valid mix.
var ErrInvalidWeights = errors.New("invalid weights")

// Weights holds one non-negative weight per dimension in canonical order.
// A nil Weights means equal weighting.
type Weights []float64

// NewWeights builds weights from a keyed map. Keys may be dimension keys or aliases.
// Dimensions left out get weight 0. The total must be 1.0.
func NewWeights(dims schema.DimensionSet, raw map[string]float64) (Weights, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	w := make(Weights, dims.Len())
	total := 0.0
	for key, value := range raw {
		i, ok := dims.Resolve(key)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrInvalidWeights, schema.ErrUnknownDimension, key)
		}
		if value < 0 || math.IsNaN(value) {
			return nil, fmt.Errorf("%w: weight for %s must be non-negative, got %.3f", ErrInvalidWeights, key, value)
		}
		w[i] = value
		total += value
	}
	if math.Abs(total-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: weights must sum to 1.0, got %.3f", ErrInvalidWeights, total)
	}
	return w, nil
}

// EqualWeights returns 1/d for every dimension.
func EqualWeights(d int) Weights {
	w := make(Weights, d)
	for i := range w {
		w[i] = 1 / float64(d)
	}
	return w
}

// IsEqual reports whether the weights reduce to the arithmetic mean.
func (w Weights) IsEqual() bool {
	for i := 1; i < len(w); i++ {
		if math.Abs(w[i]-w[0]) > 1e-12 {
			return false
		}
	}
	return true
}

// Average returns the arithmetic mean of all values at full precision.
// An empty vector averages to 0.
func Average(v schema.ScoreVector) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, value := range v {
		sum += value
	}
	return sum / float64(len(v))
}

// WeightedAverage applies the weights to the vector.
// Nil, equal or mismatched weights fall back to the arithmetic mean.
func WeightedAverage(v schema.ScoreVector, w Weights) float64 {
	if len(w) != len(v) || w.IsEqual() {
		return Average(v)
	}
	sum := 0.0
	for i, value := range v {
		sum += value * w[i]
	}
	return sum
}

// Round1 rounds a derived value for display.
func Round1(v float64) float64 {
	return schema.RoundTenth(v)
}

// Summarize computes the catalogue-wide statistics shown on the overview.
func Summarize(c *schema.Catalog, w Weights) schema.CatalogSummary {
	summary := schema.CatalogSummary{
		Mechanisms: len(c.Mechanisms),
		Objectives: len(c.Objectives),
		Dimensions: c.Dimensions.Len(),
	}
	if len(c.Mechanisms) == 0 {
		return summary
	}
	total := 0.0
	summary.TopScore = math.Inf(-1)
	for _, m := range c.Mechanisms {
		avg := WeightedAverage(m.Scores, w)
		total += avg
		if avg > summary.TopScore {
			summary.TopScore = avg
			summary.TopMechanismID = m.ID
		}
	}
	summary.AverageOfAverages = total / float64(len(c.Mechanisms))
	return summary
}

// Coverage counts primary and partial coverage for each objective.
// Missing cells count as none.
func Coverage(c *schema.Catalog) []schema.CoverageSummary {
	out := make([]schema.CoverageSummary, len(c.Objectives))
	for i, o := range c.Objectives {
		out[i] = schema.CoverageSummary{ObjectiveID: o.ID, Name: o.Name}
		for _, m := range c.Mechanisms {
			switch m.CoverageFor(o.ID).Level {
			case schema.CoveragePrimary:
				out[i].Primary++
			case schema.CoveragePartial:
				out[i].Partial++
			}
		}
	}
	return out
}
