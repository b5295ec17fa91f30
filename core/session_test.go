package core

import (
	"testing"

	"github.com/huangsam/vmfs/core/drag"
	"github.com/huangsam/vmfs/core/geom"
	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCatalog returns a small catalogue with a tie on the derived average (a and d).
func testCatalog() *schema.Catalog {
	a := mech("a", 4, 4, 4, 4)
	a.Coverage = map[string]schema.CoverageCell{"o1": {Level: schema.CoveragePrimary}}
	return &schema.Catalog{
		Dimensions: schema.DefaultDimensions(),
		Objectives: []schema.Objective{{ID: "o1", Name: "Objective 1"}, {ID: "o2", Name: "Objective 2"}},
		Mechanisms: []schema.Mechanism{
			a,
			mech("b", 5, 3, 2, 2),
			mech("c", 2, 2, 2, 2),
			mech("d", 3, 5, 3, 5),
		},
		Findings: []schema.Finding{{ID: "f1", Title: "Finding"}},
	}
}

func TestSessionSelectAndEdit(t *testing.T) {
	s := NewSession(testCatalog())
	assert.Nil(t, s.CurrentScoreVector())
	assert.Equal(t, 0.0, s.DerivedAverage())

	require.NoError(t, s.Select("b"))
	assert.Equal(t, schema.ScoreVector{5, 3, 2, 2}, s.CurrentScoreVector())
	assert.False(t, s.Edited())

	s.SetScore(2, 4.04)
	assert.True(t, s.Edited())
	assert.Equal(t, schema.ScoreVector{5, 3, 4, 2}, s.CurrentScoreVector())
	assert.InDelta(t, 3.5, s.DerivedAverage(), 1e-9)

	// Original catalogue data is never touched
	m, _ := s.Catalog().Mechanism("b")
	assert.Equal(t, schema.ScoreVector{5, 3, 2, 2}, m.Scores)

	s.Reset()
	assert.False(t, s.Edited())
	assert.Equal(t, schema.ScoreVector{5, 3, 2, 2}, s.CurrentScoreVector())
}

func TestSessionSetScoreClamps(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.Select("c"))

	s.SetScore(0, 9)
	s.SetScore(1, -2)
	s.SetScore(2, 3.26)
	s.SetScore(7, 4) // Out of range dimension
	assert.Equal(t, schema.ScoreVector{5, 1, 3.3, 2}, s.CurrentScoreVector())
}

func TestSessionSetScoreWithoutSelection(t *testing.T) {
	s := NewSession(testCatalog())
	s.SetScore(0, 5)
	assert.Nil(t, s.CurrentScoreVector())
	assert.Error(t, s.SetScoreByName("tf", 5))
}

func TestSessionOverlayLifecycle(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.Select("a"))
	s.SetScore(0, 1)

	// Re-selecting the same id keeps the overlay
	require.NoError(t, s.Select("a"))
	assert.Equal(t, 1.0, s.CurrentScoreVector()[0])

	// Switching discards it, even when switching back
	require.NoError(t, s.Select("b"))
	require.NoError(t, s.Select("a"))
	assert.Equal(t, 4.0, s.CurrentScoreVector()[0])
	assert.False(t, s.Edited())
}

func TestSessionSelectUnknown(t *testing.T) {
	s := NewSession(testCatalog())
	err := s.Select("zzz")
	assert.ErrorIs(t, err, ErrUnknownMechanism)
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestSessionOnSwitch(t *testing.T) {
	s := NewSession(testCatalog())
	calls := 0
	s.OnSwitch(func() { calls++ })

	require.NoError(t, s.Select("a"))
	require.NoError(t, s.Select("a"))
	require.NoError(t, s.Select("b"))
	assert.Equal(t, 2, calls)
}

func TestSessionSetScoreByName(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.Select("c"))
	require.NoError(t, s.SetScoreByName("gsa", 4.5))
	require.NoError(t, s.SetScoreByName("Political", 3))
	assert.Equal(t, schema.ScoreVector{2, 3, 2, 4.5}, s.CurrentScoreVector())

	err := s.SetScoreByName("speed", 3)
	assert.ErrorIs(t, err, schema.ErrUnknownDimension)
}

func TestSessionRankedFilteredList(t *testing.T) {
	s := NewSession(testCatalog())

	ranked, err := s.RankedFilteredList("average", 3)
	require.NoError(t, err)
	ids := make([]string, len(ranked))
	for i, m := range ranked {
		ids[i] = m.ID
	}
	// Stable: a precedes d on the tie, c is filtered out, b sits at exactly 3.0
	assert.Equal(t, []string{"a", "d", "b"}, ids)

	ranked, err = s.RankedFilteredList("tf", 1)
	require.NoError(t, err)
	assert.Equal(t, "b", ranked[0].ID)

	_, err = s.RankedFilteredList("speed", 1)
	assert.ErrorIs(t, err, schema.ErrUnknownDimension)
}

func TestSessionRankedListIgnoresOverlay(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.Select("c"))
	for i := range 4 {
		s.SetScore(i, 5)
	}
	ranked, err := s.RankedFilteredList("average", 1)
	require.NoError(t, err)
	assert.Equal(t, "c", ranked[len(ranked)-1].ID)
}

func TestSessionComparison(t *testing.T) {
	s := NewSession(testCatalog(), WithCapacity(2))

	added, err := s.Toggle("a")
	require.NoError(t, err)
	assert.True(t, added)
	_, _ = s.Toggle("b")
	added, err = s.Toggle("c")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = s.Toggle("zzz")
	assert.ErrorIs(t, err, ErrUnknownMechanism)

	rows := s.ComparisonRows()
	require.Len(t, rows, 4)
	assert.Len(t, rows[0].Cells, 2)

	result := s.ComparisonResult()
	assert.Equal(t, []string{"a", "b"}, result.Members)
	assert.True(t, result.Averages[0].IsMax)

	s.ClearComparison()
	assert.Nil(t, s.ComparisonRows())
}

func TestSessionWhatIf(t *testing.T) {
	s := NewSession(testCatalog())
	_, err := s.WhatIf("average")
	assert.ErrorIs(t, err, ErrUnknownMechanism)

	require.NoError(t, s.Select("c"))
	for i := range 4 {
		s.SetScore(i, 5)
	}
	result, err := s.WhatIf("average")
	require.NoError(t, err)

	assert.Equal(t, "c", result.MechanismID)
	assert.Equal(t, 2.0, result.OriginalAverage)
	assert.Equal(t, 5.0, result.EditedAverage)
	assert.Equal(t, 3.0, result.Delta)
	assert.Equal(t, 4, result.RankBefore)
	assert.Equal(t, 1, result.RankAfter)
	assert.Equal(t, 5.0, result.Edited[string(schema.TechnicalFeasibility)])
	assert.Equal(t, 2.0, result.Original[string(schema.TechnicalFeasibility)])

	_, err = s.WhatIf("speed")
	assert.Error(t, err)
}

// fixedSurface maps raw pointer coordinates straight onto a radar.
type fixedSurface struct{ radar geom.Radar }

func (f fixedSurface) Resolve(x, y float64) (geom.Point, geom.Radar, bool) {
	return geom.Point{X: x, Y: y}, f.radar, true
}

func TestSessionAsDragTarget(t *testing.T) {
	s := NewSession(testCatalog())
	require.NoError(t, s.Select("c"))

	radar := geom.NewRadar(geom.Point{X: 100, Y: 100}, 80, 4)
	ctrl := drag.NewController(fixedSurface{radar: radar}, s)
	s.OnSwitch(ctrl.Close)

	// Vertex 0 of a 2.0 score sits straight above the centre
	vertex := radar.ToPoint(2, 0)
	require.True(t, ctrl.PointerMove(vertex.X, vertex.Y))
	require.True(t, ctrl.PointerDown(vertex.X, vertex.Y))

	// Drag to the outer ring
	ctrl.PointerMove(100, 20)
	assert.Equal(t, 5.0, s.CurrentScoreVector()[0])

	// Switching selection ends the drag
	require.NoError(t, s.Select("a"))
	state, _ := ctrl.State()
	assert.Equal(t, drag.Idle, state)
	assert.False(t, s.Edited())
}
