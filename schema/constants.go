package schema

import (
	"errors"
	"math"
)

// Custom string types for type safety.
type (
	// DimensionKey identifies a scoring dimension.
	DimensionKey string

	// CoverageLevel describes how directly a mechanism addresses an objective.
	CoverageLevel string

	// SortKey selects the ranking criterion: AverageSort or a dimension key.
	SortKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// Score domain bounds.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// DefaultCapacity is the comparison set size observed in the dashboard.
const DefaultCapacity = 4

// DefaultGlobalSouthThreshold is the minimum adoptability kept by the Global-South filter.
const DefaultGlobalSouthThreshold = 3.5

// Default dimension keys.
const (
	TechnicalFeasibility    DimensionKey = "technical_feasibility"
	PoliticalTractability   DimensionKey = "political_tractability"
	SovereigntyImpact       DimensionKey = "sovereignty_impact"
	GlobalSouthAdoptability DimensionKey = "global_south_adoptability"
)

// All coverage levels supported.
const (
	CoverageNone    CoverageLevel = "none" // default
	CoveragePartial CoverageLevel = "partial"
	CoveragePrimary CoverageLevel = "primary"
)

// AverageSort ranks by the derived average.
const AverageSort SortKey = "average"

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Sentinel errors shared across packages.
var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrUnknownMechanism = errors.New("unknown mechanism")
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidCoverageLevels lists all valid coverage levels.
var ValidCoverageLevels = map[CoverageLevel]struct{}{
	CoverageNone:    {},
	CoveragePartial: {},
	CoveragePrimary: {},
}

// Symbol returns the glyph used for the coverage level.
func (l CoverageLevel) Symbol() string {
	switch l {
	case CoveragePrimary:
		return "●"
	case CoveragePartial:
		return "◐"
	default:
		return "○"
	}
}

// DefaultDimensions returns the four dimensions of the verification mechanism framework.
func DefaultDimensions() DimensionSet {
	return DimensionSet{
		{Key: TechnicalFeasibility, Name: "Technical Feasibility", ShortName: "Tech", Alias: "tf"},
		{Key: PoliticalTractability, Name: "Political Tractability", ShortName: "Political", Alias: "pt"},
		{Key: SovereigntyImpact, Name: "Sovereignty Impact", ShortName: "Sovereignty", Alias: "si"},
		{Key: GlobalSouthAdoptability, Name: "Global South Adoptability", ShortName: "GS Adopt", Alias: "gsa"},
	}
}

// ClampScore forces a value into [MinScore, MaxScore]. NaN maps to MinScore.
func ClampScore(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

// RoundTenth rounds to the nearest 0.1.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ScoreTolerance absorbs float noise from summing tenth-step scores.
// [3.3, 3.3, 3.3, 4.1] averages to 3.4999999999999996 and must still count as 3.5.
const ScoreTolerance = 1e-9

// AtLeast reports whether v reaches threshold within ScoreTolerance.
func AtLeast(v, threshold float64) bool {
	return v >= threshold-ScoreTolerance
}

// SameScore reports whether two derived scores are equal within ScoreTolerance.
func SameScore(a, b float64) bool {
	return math.Abs(a-b) <= ScoreTolerance
}
