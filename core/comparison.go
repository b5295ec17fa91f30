package core

import (
	"github.com/huangsam/vmfs/core/agg"
	"github.com/huangsam/vmfs/schema"
)

// ComparisonSet is a bounded, insertion-ordered set of mechanisms for side-by-side viewing.
// Members are unique by id.
type ComparisonSet struct {
	capacity int
	members  []schema.Mechanism
}

// NewComparisonSet creates an empty set. A capacity below 1 falls back to the default.
func NewComparisonSet(capacity int) *ComparisonSet {
	if capacity < 1 {
		capacity = schema.DefaultCapacity
	}
	return &ComparisonSet{capacity: capacity}
}

// Toggle removes the mechanism when present, otherwise appends it while there is room.
// A full set leaves membership unchanged. It reports whether membership changed.
func (s *ComparisonSet) Toggle(m schema.Mechanism) bool {
	for i := range s.members {
		if s.members[i].ID == m.ID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return true
		}
	}
	if len(s.members) >= s.capacity {
		return false
	}
	s.members = append(s.members, m)
	return true
}

// Contains reports whether the id is a member.
func (s *ComparisonSet) Contains(id string) bool {
	for i := range s.members {
		if s.members[i].ID == id {
			return true
		}
	}
	return false
}

// Clear empties the set.
func (s *ComparisonSet) Clear() {
	s.members = nil
}

// Members returns an insertion-ordered copy of the members.
func (s *ComparisonSet) Members() []schema.Mechanism {
	out := make([]schema.Mechanism, len(s.members))
	copy(out, s.members)
	return out
}

// IDs returns the member ids in insertion order.
func (s *ComparisonSet) IDs() []string {
	ids := make([]string, len(s.members))
	for i, m := range s.members {
		ids[i] = m.ID
	}
	return ids
}

// Len returns the number of members.
func (s *ComparisonSet) Len() int {
	return len(s.members)
}

// Capacity returns the maximum number of members.
func (s *ComparisonSet) Capacity() int {
	return s.capacity
}

// Rows builds one row per dimension with every member's original value.
// The largest value on each row is flagged; ties are all flagged.
func (s *ComparisonSet) Rows(dims schema.DimensionSet) []schema.ComparisonRow {
	if len(s.members) == 0 {
		return nil
	}
	rows := make([]schema.ComparisonRow, dims.Len())
	for i, d := range dims {
		values := make([]float64, len(s.members))
		for j, m := range s.members {
			values[j] = m.Scores.At(i)
		}
		rows[i] = schema.ComparisonRow{
			Dimension: d.Key,
			Name:      d.Name,
			Cells:     flagMax(s.IDs(), values),
		}
	}
	return rows
}

// Result builds the full comparison, including a derived average row.
func (s *ComparisonSet) Result(dims schema.DimensionSet, w agg.Weights) schema.ComparisonResult {
	result := schema.ComparisonResult{
		Members: s.IDs(),
		Rows:    s.Rows(dims),
	}
	if len(s.members) == 0 {
		return result
	}
	averages := make([]float64, len(s.members))
	for j, m := range s.members {
		averages[j] = agg.WeightedAverage(m.Scores, w)
	}
	result.Averages = flagMax(result.Members, averages)
	return result
}

// flagMax pairs ids with values and marks every cell holding the row maximum.
func flagMax(ids []string, values []float64) []schema.ComparisonCell {
	best := values[0]
	for _, v := range values[1:] {
		best = max(best, v)
	}
	cells := make([]schema.ComparisonCell, len(values))
	for i, v := range values {
		cells[i] = schema.ComparisonCell{
			MechanismID: ids[i],
			Value:       v,
			IsMax:       schema.SameScore(v, best),
		}
	}
	return cells
}
