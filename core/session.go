package core

import (
	"fmt"

	"github.com/huangsam/vmfs/core/agg"
	"github.com/huangsam/vmfs/core/algo"
	"github.com/huangsam/vmfs/core/drag"
	"github.com/huangsam/vmfs/schema"
)

// ErrUnknownMechanism is returned when an id is not part of the catalogue.
var ErrUnknownMechanism = schema.ErrUnknownMechanism

var _ drag.Target = &Session{} // Compile-time check

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithWeights sets the weights used for the derived average.
func WithWeights(w agg.Weights) SessionOption {
	return func(s *Session) {
		s.weights = w
	}
}

// WithCapacity sets the comparison set capacity.
func WithCapacity(k int) SessionOption {
	return func(s *Session) {
		s.comparison = NewComparisonSet(k)
	}
}

// Session is the selection state behind every view: one selected mechanism,
// its optional edit overlay and the comparison set.
// It is not safe for concurrent use.
type Session struct {
	catalog    *schema.Catalog
	weights    agg.Weights
	comparison *ComparisonSet

	selected int                // catalogue index, -1 when nothing is selected
	overlay  schema.ScoreVector // nil until the first edit

	onSwitch []func()
}

// NewSession creates a session over an immutable catalogue with nothing selected.
func NewSession(c *schema.Catalog, opts ...SessionOption) *Session {
	s := &Session{
		catalog:    c,
		comparison: NewComparisonSet(schema.DefaultCapacity),
		selected:   -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the underlying catalogue.
func (s *Session) Catalog() *schema.Catalog {
	return s.catalog
}

// Weights returns the weights of the derived average.
func (s *Session) Weights() agg.Weights {
	return s.weights
}

// OnSwitch registers a hook run whenever the selection moves to another mechanism.
// Drag controllers use it to release pointer capture.
func (s *Session) OnSwitch(fn func()) {
	s.onSwitch = append(s.onSwitch, fn)
}

// Select makes the mechanism current. Switching to another id discards the overlay;
// re-selecting the current id keeps it.
func (s *Session) Select(id string) error {
	i := s.catalog.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownMechanism, id)
	}
	if i == s.selected {
		return nil
	}
	for _, fn := range s.onSwitch {
		fn()
	}
	s.selected = i
	s.overlay = nil
	return nil
}

// Selected returns the current mechanism with its original scores.
func (s *Session) Selected() (schema.Mechanism, bool) {
	if s.selected < 0 {
		return schema.Mechanism{}, false
	}
	return s.catalog.Mechanisms[s.selected], true
}

// Reset drops the overlay of the current selection.
func (s *Session) Reset() {
	s.overlay = nil
}

// Edited reports whether the current selection carries an overlay.
func (s *Session) Edited() bool {
	return s.overlay != nil
}

// SetScore writes one dimension of the overlay, creating it from the original scores
// on first use. Values are clamped to the score domain and rounded to 0.1.
// Without a selection, or for an out-of-range dimension, it does nothing.
func (s *Session) SetScore(dim int, value float64) {
	m, ok := s.Selected()
	if !ok || dim < 0 || dim >= s.catalog.Dimensions.Len() {
		return
	}
	if s.overlay == nil {
		s.overlay = m.Scores.Clone()
	}
	s.overlay[dim] = schema.RoundTenth(schema.ClampScore(value))
}

// SetScoreByName resolves a dimension key, alias or short name before SetScore.
func (s *Session) SetScoreByName(name string, value float64) error {
	if _, ok := s.Selected(); !ok {
		return fmt.Errorf("%w: nothing selected", ErrUnknownMechanism)
	}
	i, ok := s.catalog.Dimensions.Resolve(name)
	if !ok {
		return fmt.Errorf("%w: %s", schema.ErrUnknownDimension, name)
	}
	s.SetScore(i, value)
	return nil
}

// CurrentScoreVector returns a copy of the overlay when present, else the original scores.
// It returns nil without a selection.
func (s *Session) CurrentScoreVector() schema.ScoreVector {
	if s.overlay != nil {
		return s.overlay.Clone()
	}
	m, ok := s.Selected()
	if !ok {
		return nil
	}
	return m.Scores.Clone()
}

// DerivedAverage returns the derived metric of the current vector at full precision.
func (s *Session) DerivedAverage() float64 {
	return agg.WeightedAverage(s.CurrentScoreVector(), s.weights)
}

// RankedFilteredList filters by derived average, then ranks by key.
// It always works on original scores; overlays never leak into the list.
func (s *Session) RankedFilteredList(key string, minThreshold float64) ([]schema.Mechanism, error) {
	c, err := algo.ResolveSortKey(s.catalog.Dimensions, key, s.weights)
	if err != nil {
		return nil, err
	}
	return algo.RankFiltered(s.catalog.Mechanisms, c, minThreshold), nil
}

// Toggle flips comparison membership of the mechanism.
// It reports false when the set is full and the id was not a member.
func (s *Session) Toggle(id string) (bool, error) {
	m, ok := s.catalog.Mechanism(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownMechanism, id)
	}
	return s.comparison.Toggle(m), nil
}

// ClearComparison empties the comparison set.
func (s *Session) ClearComparison() {
	s.comparison.Clear()
}

// Comparison returns the comparison set.
func (s *Session) Comparison() *ComparisonSet {
	return s.comparison
}

// ComparisonRows returns one row per dimension for the comparison members.
func (s *Session) ComparisonRows() []schema.ComparisonRow {
	return s.comparison.Rows(s.catalog.Dimensions)
}

// ComparisonResult returns the rows plus the derived average row.
func (s *Session) ComparisonResult() schema.ComparisonResult {
	return s.comparison.Result(s.catalog.Dimensions, s.weights)
}

// WhatIf contrasts the current vector with the original one.
// Rank positions are computed over the whole catalogue with the given sort key.
func (s *Session) WhatIf(key string) (schema.WhatIfResult, error) {
	m, ok := s.Selected()
	if !ok {
		return schema.WhatIfResult{}, fmt.Errorf("%w: nothing selected", ErrUnknownMechanism)
	}
	c, err := algo.ResolveSortKey(s.catalog.Dimensions, key, s.weights)
	if err != nil {
		return schema.WhatIfResult{}, err
	}

	current := s.CurrentScoreVector()
	edited := make([]schema.Mechanism, len(s.catalog.Mechanisms))
	copy(edited, s.catalog.Mechanisms)
	edited[s.selected].Scores = current

	original := agg.WeightedAverage(m.Scores, s.weights)
	after := agg.WeightedAverage(current, s.weights)
	dims := s.catalog.Dimensions
	return schema.WhatIfResult{
		MechanismID:     m.ID,
		Name:            m.Name,
		Original:        m.Scores.Map(dims),
		Edited:          current.Map(dims),
		OriginalAverage: original,
		EditedAverage:   after,
		Delta:           after - original,
		RankBefore:      algo.Position(algo.Rank(s.catalog.Mechanisms, c), m.ID),
		RankAfter:       algo.Position(algo.Rank(edited, c), m.ID),
	}, nil
}
