// Package algo orders and filters mechanisms by their scores.
package algo

import (
	"fmt"
	"sort"

	"github.com/huangsam/vmfs/core/agg"
	"github.com/huangsam/vmfs/schema"
)

// Criterion is a resolved sort key: a dimension index, or -1 for the derived average.
type Criterion struct {
	Key     schema.SortKey
	Index   int
	Weights agg.Weights
}

// ResolveSortKey turns a user supplied key into a Criterion.
// "average" and its aliases sort by the derived metric.
func ResolveSortKey(dims schema.DimensionSet, key string, w agg.Weights) (Criterion, error) {
	switch key {
	case "", string(schema.AverageSort), "avg", "weightedAvg", "weighted_avg":
		return Criterion{Key: schema.AverageSort, Index: -1, Weights: w}, nil
	}
	i, ok := dims.Resolve(key)
	if !ok {
		return Criterion{}, fmt.Errorf("invalid sort key %q: %w", key, schema.ErrUnknownDimension)
	}
	return Criterion{Key: schema.SortKey(dims[i].Key), Index: i, Weights: w}, nil
}

// Value returns the criterion value for a score vector.
func (c Criterion) Value(v schema.ScoreVector) float64 {
	if c.Index < 0 {
		return agg.WeightedAverage(v, c.Weights)
	}
	return v.At(c.Index)
}

// Rank sorts a copy of the mechanisms in descending order of the criterion.
// The sort is stable: ties, including ones differing only by float noise, keep their input order.
func Rank(mechanisms []schema.Mechanism, c Criterion) []schema.Mechanism {
	ranked := make([]schema.Mechanism, len(mechanisms))
	copy(ranked, mechanisms)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := c.Value(ranked[i].Scores), c.Value(ranked[j].Scores)
		return a > b && !schema.SameScore(a, b)
	})
	return ranked
}

// Filter keeps mechanisms whose derived average is at least minThreshold.
// The boundary is inclusive, within schema.ScoreTolerance.
func Filter(mechanisms []schema.Mechanism, minThreshold float64, w agg.Weights) []schema.Mechanism {
	out := make([]schema.Mechanism, 0, len(mechanisms))
	for _, m := range mechanisms {
		if schema.AtLeast(agg.WeightedAverage(m.Scores, w), minThreshold) {
			out = append(out, m)
		}
	}
	return out
}

// FilterDimension keeps mechanisms whose value on dimension index is at least minThreshold.
func FilterDimension(mechanisms []schema.Mechanism, index int, minThreshold float64) []schema.Mechanism {
	out := make([]schema.Mechanism, 0, len(mechanisms))
	for _, m := range mechanisms {
		if schema.AtLeast(m.Scores.At(index), minThreshold) {
			out = append(out, m)
		}
	}
	return out
}

// RankFiltered filters first, then ranks the remaining candidates.
func RankFiltered(mechanisms []schema.Mechanism, c Criterion, minThreshold float64) []schema.Mechanism {
	return Rank(Filter(mechanisms, minThreshold, c.Weights), c)
}

// Limit returns the top 'limit' mechanisms. A non-positive limit keeps everything.
func Limit(mechanisms []schema.Mechanism, limit int) []schema.Mechanism {
	if limit > 0 && len(mechanisms) > limit {
		return mechanisms[:limit]
	}
	return mechanisms
}

// Position returns the 1-based position of id in a ranked list, or 0 if absent.
func Position(ranked []schema.Mechanism, id string) int {
	for i, m := range ranked {
		if m.ID == id {
			return i + 1
		}
	}
	return 0
}

// Enrich adds rank, keyed scores and band label to a ranked list.
func Enrich(ranked []schema.Mechanism, dims schema.DimensionSet, w agg.Weights) []schema.RankedMechanism {
	out := make([]schema.RankedMechanism, len(ranked))
	for i, m := range ranked {
		avg := agg.WeightedAverage(m.Scores, w)
		out[i] = schema.RankedMechanism{
			Rank:      i + 1,
			ID:        m.ID,
			Name:      m.Name,
			ShortName: m.ShortName,
			Scores:    m.Scores.Map(dims),
			Average:   avg,
			Label:     schema.GetPlainLabel(avg),
		}
	}
	return out
}
