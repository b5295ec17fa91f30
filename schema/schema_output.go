package schema

// RankedMechanism adds presentation data to a mechanism in a ranked list.
type RankedMechanism struct {
	Rank      int                `json:"rank"`
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ShortName string             `json:"short_name"`
	Scores    map[string]float64 `json:"scores"`
	Average   float64            `json:"average"`
	Label     string             `json:"label"`
}

// ComparisonCell is one mechanism's value on a comparison row.
type ComparisonCell struct {
	MechanismID string  `json:"mechanism_id"`
	Value       float64 `json:"value"`
	IsMax       bool    `json:"is_max"` // Highlights the best performer on the row (ties all flagged)
}

// ComparisonRow holds one dimension across every compared mechanism.
type ComparisonRow struct {
	Dimension DimensionKey     `json:"dimension"`
	Name      string           `json:"name"`
	Cells     []ComparisonCell `json:"cells"`
}

// ComparisonResult is the side-by-side view of the comparison set.
type ComparisonResult struct {
	Members  []string         `json:"members"` // Insertion-ordered mechanism ids
	Rows     []ComparisonRow  `json:"rows"`
	Averages []ComparisonCell `json:"averages"`
}

// WhatIfResult contrasts an edited score vector with the original one.
type WhatIfResult struct {
	MechanismID     string             `json:"mechanism_id"`
	Name            string             `json:"name"`
	Original        map[string]float64 `json:"original"`
	Edited          map[string]float64 `json:"edited"`
	OriginalAverage float64            `json:"original_average"`
	EditedAverage   float64            `json:"edited_average"`
	Delta           float64            `json:"delta"`       // EditedAverage - OriginalAverage
	RankBefore      int                `json:"rank_before"` // 1-based position among original scores
	RankAfter       int                `json:"rank_after"`  // 1-based position with the edit applied
}

// CatalogSummary has catalogue-wide statistics.
type CatalogSummary struct {
	Mechanisms        int     `json:"mechanisms"`
	Objectives        int     `json:"objectives"`
	Dimensions        int     `json:"dimensions"`
	AverageOfAverages float64 `json:"average_of_averages"`
	TopScore          float64 `json:"top_score"`
	TopMechanismID    string  `json:"top_mechanism_id"`
}

// CoverageSummary counts coverage levels for one objective.
type CoverageSummary struct {
	ObjectiveID string `json:"objective_id"`
	Name        string `json:"name"`
	Primary     int    `json:"primary"`
	Partial     int    `json:"partial"`
}

// GetPlainLabel returns a plain text band for a score on the 1-5 scale.
func GetPlainLabel(score float64) string {
	switch {
	case AtLeast(score, 4.5):
		return "Very High"
	case AtLeast(score, 3.5):
		return "High"
	case AtLeast(score, 2.5):
		return "Moderate"
	case AtLeast(score, 1.5):
		return "Low"
	default:
		return "Very Low"
	}
}

// DimensionValue is one labelled score in canonical dimension order.
type DimensionValue struct {
	Key   DimensionKey `json:"key"`
	Name  string       `json:"name"`
	Value float64      `json:"value"`
	Label string       `json:"label"`
}

// ObjectiveCoverage is how a mechanism covers one objective.
type ObjectiveCoverage struct {
	ObjectiveID   string        `json:"objective_id"`
	Name          string        `json:"name"`
	Level         CoverageLevel `json:"level"`
	Justification string        `json:"justification,omitempty"`
}

// MechanismDetail is the full view of one mechanism.
type MechanismDetail struct {
	Rank                     int                 `json:"rank"` // 1-based position by derived average
	ID                       string              `json:"id"`
	Name                     string              `json:"name"`
	ShortName                string              `json:"short_name"`
	Description              string              `json:"description,omitempty"`
	InstitutionalRequirement string              `json:"institutional_requirement,omitempty"`
	Values                   []DimensionValue    `json:"values"`
	Average                  float64             `json:"average"`
	Label                    string              `json:"label"`
	Coverage                 []ObjectiveCoverage `json:"coverage"`
	EvidenceProduced         []string            `json:"evidence_produced,omitempty"`
	WhatItVerifies           []string            `json:"what_it_verifies,omitempty"`
	Dependencies             []string            `json:"dependencies,omitempty"`
	EvasionModes             []string            `json:"evasion_modes,omitempty"`
	Limitations              Limitations         `json:"limitations"`
	References               []string            `json:"references,omitempty"`
}

// CoverageRow holds one mechanism across every objective.
type CoverageRow struct {
	MechanismID string         `json:"mechanism_id"`
	Name        string         `json:"name"`
	Cells       []CoverageCell `json:"cells"` // Objective order
}

// CoverageMatrix is the mechanism x objective coverage grid.
type CoverageMatrix struct {
	Objectives []Objective       `json:"objectives"`
	Rows       []CoverageRow     `json:"rows"`
	Summary    []CoverageSummary `json:"summary"`
}

// SummaryReport is the catalogue overview with key findings.
type SummaryReport struct {
	Summary          CatalogSummary    `json:"summary"`
	TopMechanismName string            `json:"top_mechanism_name"`
	Coverage         []CoverageSummary `json:"coverage"`
	Findings         []Finding         `json:"findings"`
}

// DimensionMetric describes one dimension and its active weight.
type DimensionMetric struct {
	Key         DimensionKey `json:"key"`
	Name        string       `json:"name"`
	ShortName   string       `json:"short_name"`
	Alias       string       `json:"alias,omitempty"`
	Description string       `json:"description,omitempty"`
	Weight      float64      `json:"weight"`
}

// BandDefinition is the lower bound of a score band.
type BandDefinition struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

// MetricsRenderModel holds everything the metrics command prints.
type MetricsRenderModel struct {
	Dimensions []DimensionMetric `json:"dimensions"`
	Formula    string            `json:"formula"`
	Bands      []BandDefinition  `json:"bands"`
}

// ScoreBands lists the band thresholds from highest to lowest.
func ScoreBands() []BandDefinition {
	return []BandDefinition{
		{Label: "Very High", Min: 4.5},
		{Label: "High", Min: 3.5},
		{Label: "Moderate", Min: 2.5},
		{Label: "Low", Min: 1.5},
		{Label: "Very Low", Min: MinScore},
	}
}
