package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/huangsam/vmfs/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComparison() schema.ComparisonResult {
	return schema.ComparisonResult{
		Members: []string{"a", "b"},
		Rows: []schema.ComparisonRow{
			{Dimension: schema.TechnicalFeasibility, Name: "Technical Feasibility", Cells: []schema.ComparisonCell{
				{MechanismID: "a", Value: 4, IsMax: true},
				{MechanismID: "b", Value: 2},
			}},
		},
		Averages: []schema.ComparisonCell{
			{MechanismID: "a", Value: 3.5, IsMax: true},
			{MechanismID: "b", Value: 3},
		},
	}
}

func TestWriteComparisonResults(t *testing.T) {
	c := testCatalog()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, testComparison(), c, testConfig(schema.TextOut), 0))
		out := buf.String()
		assert.Contains(t, out, "Technical Feasibility")
		assert.Contains(t, out, "4.0 *")
		assert.Contains(t, out, "Compared 2 mechanisms")
	})

	t.Run("empty text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, schema.ComparisonResult{}, c, testConfig(schema.TextOut), 0))
		assert.Contains(t, buf.String(), "No mechanisms selected")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, testComparison(), c, testConfig(schema.CSVOut), 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"dimension", "a", "b"},
			{"technical_feasibility", "4.0", "2.0"},
			{"average", "3.5", "3.0"},
		}, records)
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteComparisonResults(&buf, testComparison(), c, testConfig(schema.JSONOut), 0))
		var decoded schema.ComparisonResult
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testComparison(), decoded)
	})
}

func testDetail() schema.MechanismDetail {
	return schema.MechanismDetail{
		Rank: 1, ID: "a", Name: "Alpha Registry", ShortName: "Alpha",
		Description:              "Tracks accelerators.",
		InstitutionalRequirement: "high",
		Values: []schema.DimensionValue{
			{Key: schema.TechnicalFeasibility, Name: "Technical Feasibility", Value: 4, Label: "High"},
			{Key: schema.PoliticalTractability, Name: "Political Tractability", Value: 4, Label: "High"},
			{Key: schema.SovereigntyImpact, Name: "Sovereignty Impact", Value: 3, Label: "Moderate"},
			{Key: schema.GlobalSouthAdoptability, Name: "Global South Adoptability", Value: 3, Label: "Moderate"},
		},
		Average: 3.5,
		Label:   "High",
		Coverage: []schema.ObjectiveCoverage{
			{ObjectiveID: "o1", Name: "Objective One", Level: schema.CoveragePrimary, Justification: "Direct"},
		},
		WhatItVerifies: []string{"Chip location"},
		Limitations:    schema.Limitations{Primary: "Smuggling"},
	}
}

func TestWriteMechanismDetail(t *testing.T) {
	c := testCatalog()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMechanismDetail(&buf, testDetail(), c, testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Alpha Registry (a)  Rank #1")
		assert.Contains(t, out, "Tracks accelerators.")
		assert.Contains(t, out, string(glyphVertex))
		assert.Contains(t, out, "Average: 3.5 (High)  Institutional requirement: high")
		assert.Contains(t, out, "● Objective One (primary): Direct")
		assert.Contains(t, out, "What it verifies")
		assert.Contains(t, out, "  - Primary: Smuggling")
		assert.NotContains(t, out, "Evasion modes")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMechanismDetail(&buf, testDetail(), c, testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 6)
		assert.Equal(t, []string{"a", "average", "3.5", "High"}, records[5])
	})
}

func TestWriteWhatIfResults(t *testing.T) {
	dims := schema.DefaultDimensions()
	result := schema.WhatIfResult{
		MechanismID:     "b",
		Name:            "Bravo Audits",
		Original:        schema.ScoreVector{2, 3, 4, 3}.Map(dims),
		Edited:          schema.ScoreVector{5, 3, 4, 3}.Map(dims),
		OriginalAverage: 3,
		EditedAverage:   3.75,
		Delta:           0.75,
		RankBefore:      2,
		RankAfter:       1,
	}
	c := testCatalog()

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := testConfig(schema.TextOut)
		cfg.Precision = 2
		require.NoError(t, WriteWhatIfResults(&buf, result, c, cfg, 0))
		out := buf.String()
		assert.Contains(t, out, "What-if: Bravo Audits (b)")
		assert.Contains(t, out, "+3.00")
		assert.Contains(t, out, "+0.75")
		assert.Contains(t, out, "Rank: #2 -> #1")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteWhatIfResults(&buf, result, c, testConfig(schema.CSVOut), 0))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 6)
		assert.Equal(t, []string{"technical_feasibility", "2.0", "5.0", "3.0"}, records[1])
	})
}

func TestFormatDelta(t *testing.T) {
	fmtFloat, _ := createFormatters(1)
	assert.Equal(t, "+0.5", formatDelta(0.5, fmtFloat))
	assert.Equal(t, "-1.0", formatDelta(-1, fmtFloat))
	assert.Equal(t, "0.0", formatDelta(0, fmtFloat))
}

func testMatrix() schema.CoverageMatrix {
	return schema.CoverageMatrix{
		Objectives: []schema.Objective{{ID: "o1", Name: "Objective One"}, {ID: "o2", Name: "Objective Two", ShortName: "Two"}},
		Rows: []schema.CoverageRow{
			{MechanismID: "a", Name: "Alpha Registry", Cells: []schema.CoverageCell{{Level: schema.CoveragePrimary}, {Level: schema.CoverageNone}}},
			{MechanismID: "b", Name: "Bravo Audits", Cells: []schema.CoverageCell{{Level: schema.CoveragePartial}, {Level: schema.CoverageNone}}},
		},
		Summary: []schema.CoverageSummary{
			{ObjectiveID: "o1", Name: "Objective One", Primary: 1, Partial: 1},
			{ObjectiveID: "o2", Name: "Objective Two"},
		},
	}
}

func TestWriteCoverageMatrix(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCoverageMatrix(&buf, testMatrix(), testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Alpha Registry")
		assert.Contains(t, out, "◐")
		assert.Contains(t, out, "1 / 1")
		assert.Contains(t, out, "0 / 0")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCoverageMatrix(&buf, testMatrix(), testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"mechanism_id", "o1", "o2"},
			{"a", "primary", "none"},
			{"b", "partial", "none"},
		}, records)
	})
}

func TestObjectiveHeader(t *testing.T) {
	assert.Equal(t, "Long", objectiveHeader(schema.Objective{Name: "Long"}))
	assert.Equal(t, "S", objectiveHeader(schema.Objective{Name: "Long", ShortName: "S"}))
}

func testReport() schema.SummaryReport {
	return schema.SummaryReport{
		Summary: schema.CatalogSummary{
			Mechanisms: 2, Objectives: 2, Dimensions: 4,
			AverageOfAverages: 3.25, TopScore: 3.5, TopMechanismID: "a",
		},
		TopMechanismName: "Alpha Registry",
		Coverage:         testMatrix().Summary,
		Findings:         []schema.Finding{{ID: "f1", Title: "No silver bullet", Description: "Combine mechanisms."}},
	}
}

func TestWriteSummaryReport(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummaryReport(&buf, testReport(), testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Mechanisms: 2  Objectives: 2  Dimensions: 4")
		assert.Contains(t, out, "Top mechanism: Alpha Registry (a) at 3.5")
		assert.Contains(t, out, "1. No silver bullet")
		assert.Contains(t, out, "Combine mechanisms.")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteSummaryReport(&buf, testReport(), testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 11)
		assert.Equal(t, []string{"top_mechanism_id", "a"}, records[6])
		assert.Equal(t, []string{"o1_primary", "1"}, records[7])
	})
}

func testModel() schema.MetricsRenderModel {
	return schema.MetricsRenderModel{
		Dimensions: []schema.DimensionMetric{
			{Key: schema.TechnicalFeasibility, Name: "Technical Feasibility", ShortName: "Tech", Alias: "tf", Weight: 0.25},
		},
		Formula: "average = Σ score_i / D",
		Bands:   schema.ScoreBands(),
	}
}

func TestWriteMetricsDefinitions(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMetricsDefinitions(&buf, testModel(), testConfig(schema.TextOut)))
		out := buf.String()
		assert.Contains(t, out, "Technical Feasibility")
		assert.Contains(t, out, "0.25")
		assert.Contains(t, out, "Formula: average = Σ score_i / D")
		assert.Contains(t, out, ">= 4.5  Very High")
		assert.Contains(t, out, ">= 1.0  Very Low")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMetricsDefinitions(&buf, testModel(), testConfig(schema.CSVOut)))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, []string{"technical_feasibility", "Technical Feasibility", "tf", "0.2500", ""}, records[1])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteMetricsDefinitions(&buf, testModel(), testConfig(schema.JSONOut)))
		var decoded schema.MetricsRenderModel
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, testModel(), decoded)
	})
}
