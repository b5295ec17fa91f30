package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Precision:    1,
		Output:       output,
		Width:        160,
		CacheBackend: schema.SQLiteBackend,
	}
}

func testCatalog() *schema.Catalog {
	return &schema.Catalog{
		Dimensions: schema.DefaultDimensions(),
		Objectives: []schema.Objective{
			{ID: "o1", Name: "Objective One", ShortName: "One"},
			{ID: "o2", Name: "Objective Two", ShortName: "Two"},
		},
		Mechanisms: []schema.Mechanism{
			{
				ID: "a", Name: "Alpha Registry", ShortName: "Alpha",
				Scores:                   schema.ScoreVector{4, 4, 3, 3},
				InstitutionalRequirement: "high",
				Coverage:                 map[string]schema.CoverageCell{"o1": {Level: schema.CoveragePrimary}},
			},
			{
				ID: "b", Name: "Bravo Audits", ShortName: "Bravo",
				Scores: schema.ScoreVector{2, 3, 4, 3},
			},
		},
	}
}

func testRanked() []schema.RankedMechanism {
	dims := schema.DefaultDimensions()
	return []schema.RankedMechanism{
		{Rank: 1, ID: "a", Name: "Alpha Registry", ShortName: "Alpha", Scores: schema.ScoreVector{4, 4, 3, 3}.Map(dims), Average: 3.5, Label: "High"},
		{Rank: 2, ID: "b", Name: "Bravo Audits", ShortName: "Bravo", Scores: schema.ScoreVector{2, 3, 4, 3}.Map(dims), Average: 3.0, Label: "Moderate"},
	}
}

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		expected  string
	}{
		{"precision 1", 1, 3.14159, "3.1"},
		{"precision 0", 0, 3.6, "4"},
		{"precision 3", 3, 3.14159, "3.142"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, intFmt := createFormatters(tt.precision)
			assert.Equal(t, tt.expected, fmtFloat(tt.value))
			assert.Equal(t, "%d", intFmt)
		})
	}
}

func TestWriteRankResultsText(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig(schema.TextOut)
	cfg.Detail = true

	require.NoError(t, WriteRankResults(&buf, testRanked(), testCatalog(), cfg, time.Millisecond))
	out := buf.String()

	assert.Contains(t, out, "Alpha Registry")
	assert.Contains(t, out, "Moderate")
	assert.Contains(t, out, "●○") // Coverage glyphs for a
	assert.Contains(t, out, "Showing top 2 mechanisms")
	assert.Contains(t, out, "Cache backend: sqlite")
}

func TestWriteRankResultsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRankResults(&buf, testRanked(), testCatalog(), testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"rank", "id", "name",
		"technical_feasibility", "political_tractability", "sovereignty_impact", "global_south_adoptability",
		"average", "label",
	}, records[0])
	assert.Equal(t, []string{"2", "b", "Bravo Audits", "2.0", "3.0", "4.0", "3.0", "3.0", "Moderate"}, records[2])
}

func TestWriteRankResultsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRankResults(&buf, testRanked(), testCatalog(), testConfig(schema.JSONOut), 0))

	var decoded []schema.RankedMechanism
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, testRanked(), decoded)
}

func TestWriteRankResultsParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRankResults(&buf, testRanked(), testCatalog(), testConfig(schema.ParquetOut), 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PAR1")))
}

func TestParquetGuards(t *testing.T) {
	ow := NewOutWriter()
	cfg := testConfig(schema.ParquetOut)
	c := testCatalog()

	assert.ErrorIs(t, ow.WriteRank(testRanked(), c, cfg, 0), ErrParquetNeedsFile)
	assert.ErrorIs(t, ow.WriteComparison(schema.ComparisonResult{}, c, cfg, 0), ErrParquetUnsupported)
	assert.ErrorIs(t, ow.WriteMechanism(schema.MechanismDetail{}, c, cfg), ErrParquetUnsupported)
	assert.ErrorIs(t, ow.WriteWhatIf(schema.WhatIfResult{}, c, cfg, 0), ErrParquetUnsupported)
	assert.ErrorIs(t, ow.WriteCoverage(schema.CoverageMatrix{}, cfg), ErrParquetUnsupported)
	assert.ErrorIs(t, ow.WriteSummary(schema.SummaryReport{}, cfg), ErrParquetUnsupported)
	assert.ErrorIs(t, ow.WriteMetrics(schema.MetricsRenderModel{}, cfg), ErrParquetUnsupported)
}

func TestWriteRankToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranked.parquet")
	cfg := testConfig(schema.ParquetOut)
	cfg.OutputFile = path

	require.NoError(t, NewOutWriter().WriteRank(testRanked(), testCatalog(), cfg, 0))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSuccessMessage(t *testing.T) {
	assert.Equal(t, "Wrote JSON", successMessage(schema.JSONOut))
	assert.Equal(t, "Wrote CSV", successMessage(schema.CSVOut))
	assert.Equal(t, "Wrote Parquet", successMessage(schema.ParquetOut))
	assert.Equal(t, "Wrote table", successMessage(schema.TextOut))
}

func TestMarkMax(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	assert.Equal(t, "4.0", markMax("4.0", false, cfg))
	assert.Equal(t, "4.0 *", markMax("4.0", true, cfg))
	cfg.UseEmojis = true
	assert.Equal(t, "🏆 4.0", markMax("4.0", true, cfg))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		detail   bool
		expected int
	}{
		{"narrow terminal", 60, false, 15},
		{"wide terminal", 300, false, 50},
		{"medium terminal", 120, false, 27},
		{"medium with detail", 120, true, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Detail: tt.detail}
			assert.Equal(t, tt.expected, GetMaxTableNameWidth(cfg, 4))
		})
	}
}

func TestCoverageGlyphs(t *testing.T) {
	cells := []schema.CoverageCell{
		{Level: schema.CoveragePrimary},
		{Level: schema.CoveragePartial},
		{Level: schema.CoverageNone},
	}
	assert.Equal(t, "●◐○", coverageGlyphs(cells))
	assert.Empty(t, coverageGlyphs(nil))
}

func TestDimensionHeaders(t *testing.T) {
	dims := schema.DimensionSet{{Key: "x", Name: "Long X"}, {Key: "y", Name: "Long Y", ShortName: "Y"}}
	assert.Equal(t, []string{"Long X", "Y"}, dimensionHeaders(dims))
	assert.Equal(t, []string{"x", "y"}, dimensionCSVKeys(dims))
}

func TestLabelFor(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	assert.Equal(t, "High", labelFor(3.7, cfg))
	cfg.UseColors = true
	assert.True(t, strings.Contains(labelFor(3.7, cfg), "High"))
}
