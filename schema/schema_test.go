package schema_test

import (
	"math"
	"testing"

	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScoreVector(t *testing.T) {
	dims := schema.DefaultDimensions()

	t.Run("missing dimensions default to minimum", func(t *testing.T) {
		v, err := schema.NewScoreVector(dims, map[string]float64{"technical_feasibility": 4.2})
		require.NoError(t, err)
		assert.Equal(t, schema.ScoreVector{4.2, 1.0, 1.0, 1.0}, v)
	})

	t.Run("out of range values are clamped", func(t *testing.T) {
		v, err := schema.NewScoreVector(dims, map[string]float64{
			"technical_feasibility":     7,
			"political_tractability":    0,
			"sovereignty_impact":        -3,
			"global_south_adoptability": 5,
		})
		require.NoError(t, err)
		assert.Equal(t, schema.ScoreVector{5, 1, 1, 5}, v)
	})

	t.Run("unknown dimension is rejected", func(t *testing.T) {
		_, err := schema.NewScoreVector(dims, map[string]float64{"speed": 3})
		assert.ErrorIs(t, err, schema.ErrUnknownDimension)
	})
}

func TestScoreVectorWith(t *testing.T) {
	v := schema.ScoreVector{3, 3, 3, 3}
	edited := v.With(1, 9)

	assert.Equal(t, schema.ScoreVector{3, 5, 3, 3}, edited)
	assert.Equal(t, schema.ScoreVector{3, 3, 3, 3}, v, "original must not change")
	assert.True(t, v.Equal(v.Clone()))
	assert.False(t, v.Equal(edited))
	assert.Equal(t, schema.MinScore, v.At(10))
}

func TestDimensionSetResolve(t *testing.T) {
	dims := schema.DefaultDimensions()
	tests := []struct {
		name  string
		input string
		index int
		ok    bool
	}{
		{"Key", "sovereignty_impact", 2, true},
		{"Alias", "gsa", 3, true},
		{"Alias Upper", "TF", 0, true},
		{"Short Name", "Political", 1, true},
		{"Unknown", "speed", -1, false},
		{"Empty", "", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := dims.Resolve(tt.input)
			assert.Equal(t, tt.index, i)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestClampAndRound(t *testing.T) {
	assert.Equal(t, 1.0, schema.ClampScore(0))
	assert.Equal(t, 5.0, schema.ClampScore(12))
	assert.Equal(t, 1.0, schema.ClampScore(math.NaN()))
	assert.Equal(t, 3.3, schema.ClampScore(3.3))
	assert.Equal(t, 2.5, schema.RoundTenth(2.46))
	assert.Equal(t, 2.4, schema.RoundTenth(2.44))
}

func TestCoverageFor(t *testing.T) {
	m := schema.Mechanism{
		ID: "m1",
		Coverage: map[string]schema.CoverageCell{
			"oov1": {Level: schema.CoveragePrimary},
			"oov2": {},
		},
	}
	assert.Equal(t, schema.CoveragePrimary, m.CoverageFor("oov1").Level)
	assert.Equal(t, schema.CoverageNone, m.CoverageFor("oov2").Level)
	assert.Equal(t, schema.CoverageNone, m.CoverageFor("missing").Level)
	assert.Equal(t, "○", m.CoverageFor("missing").Level.Symbol())
	assert.Equal(t, "●", schema.CoveragePrimary.Symbol())
	assert.Equal(t, "◐", schema.CoveragePartial.Symbol())
}

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		expected string
	}{
		{"Very High Upper", 5.0, "Very High"},
		{"Very High Lower", 4.5, "Very High"},
		{"High Upper", 4.49, "High"},
		{"High Lower", 3.5, "High"},
		{"Moderate", 2.5, "Moderate"},
		{"Low", 1.5, "Low"},
		{"Very Low", 1.0, "Very Low"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetPlainLabel(tt.score))
		})
	}

	// Summed at runtime so the compiler cannot fold it to exactly 3.5
	sum := 0.0
	for _, v := range []float64{3.3, 3.3, 3.3, 4.1} {
		sum += v
	}
	assert.Equal(t, "High", schema.GetPlainLabel(sum/4))
}

func TestScoreTolerance(t *testing.T) {
	assert.True(t, schema.AtLeast(3.4999999999999996, 3.5))
	assert.False(t, schema.AtLeast(3.49, 3.5))
	assert.True(t, schema.SameScore(3.4999999999999996, 3.5))
	assert.False(t, schema.SameScore(3.4, 3.5))
}

func TestCatalogLookup(t *testing.T) {
	c := &schema.Catalog{Mechanisms: []schema.Mechanism{{ID: "a"}, {ID: "b"}}}
	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))
	m, ok := c.Mechanism("a")
	assert.True(t, ok)
	assert.Equal(t, "a", m.ID)
	_, ok = c.Mechanism("z")
	assert.False(t, ok)
}
