package contract

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/vmfs/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	MaxCapacity        = 8
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ScoreEdit is a single what-if edit parsed from "dimension=value".
type ScoreEdit struct {
	Dimension string
	Value     float64
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath string   // Empty means the embedded catalogue
	Args        []string // Positional mechanism ids

	SortKey    string
	MinAverage float64
	FilterDim  string  // Optional per-dimension filter (e.g. gsa)
	FilterMin  float64 // Minimum value kept by FilterDim

	ResultLimit int
	Capacity    int
	Detail      bool
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	Edits []ScoreEdit

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	// CustomWeights is a mapping of [DimensionKeyOrAlias] = Weight, validated against the catalogue later
	CustomWeights map[string]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	Args []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Catalog           string `mapstructure:"catalog"`
	OutputFile        string `mapstructure:"output-file"`
	Limit             int    `mapstructure:"limit"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Detail            bool   `mapstructure:"detail"`
	Width             int    `mapstructure:"width"`
	Capacity          int    `mapstructure:"capacity"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from rankCmd.Flags() ---
	Sort        string  `mapstructure:"sort"`
	MinAverage  float64 `mapstructure:"min-average"`
	FilterDim   string  `mapstructure:"filter-dim"`
	FilterMin   float64 `mapstructure:"filter-min"`
	GlobalSouth bool    `mapstructure:"global-south"`

	// --- Fields from whatifCmd.Flags() ---
	Set []string `mapstructure:"set"`

	// --- Custom weights from config file ---
	Weights map[string]float64 `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Args != nil {
		clone.Args = make([]string, len(c.Args))
		copy(clone.Args, c.Args)
	}
	if c.Edits != nil {
		clone.Edits = make([]ScoreEdit, len(c.Edits))
		copy(clone.Edits, c.Edits)
	}
	if c.CustomWeights != nil {
		clone.CustomWeights = make(map[string]float64, len(c.CustomWeights))
		maps.Copy(clone.CustomWeights, c.CustomWeights)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := processEdits(cfg, input); err != nil {
		return err
	}
	return processCustomWeights(cfg, input)
}

// connStringMarkers are the fragments a server DSN must contain, with the hint shown when one is missing.
var connStringMarkers = map[schema.DatabaseBackend][][2]string{
	schema.MySQLBackend: {
		{"@tcp(", "MySQL connection string must contain '@tcp(' for host:port specification"},
		{"/", "MySQL connection string must contain '/' followed by database name"},
	},
	schema.PostgreSQLBackend: {
		{"host=", "PostgreSQL connection string must contain 'host=' parameter"},
		{"dbname=", "PostgreSQL connection string must contain 'dbname=' parameter"},
	},
}

// ValidateDatabaseConnectionString checks the shape of MySQL and PostgreSQL DSNs.
// SQLite and none accept anything, including an empty string.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	markers, ok := connStringMarkers[backend]
	if !ok {
		return nil
	}
	if connStr == "" {
		return fmt.Errorf("a connection string is required when using %s backend", backend)
	}
	for _, m := range markers {
		if !strings.Contains(connStr, m[0]) {
			return errors.New(m[1])
		}
	}
	return nil
}

// ResolveBackend lowercases and checks a backend name, then its connection string.
func ResolveBackend(kind, raw, connStr string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(raw))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid %s backend '%s'. must be sqlite, mysql, postgresql, none", kind, raw)
	}
	if err := ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", fmt.Errorf("%s-db-connect: %w", kind, err)
	}
	return backend, nil
}

// validateBackendConfigs resolves both stores. An unset analysis backend means tracking is off.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.CacheBackend, err = ResolveBackend("cache", input.CacheBackend, input.CacheDBConnect); err != nil {
		return err
	}
	cfg.CacheDBConnect = input.CacheDBConnect

	cfg.AnalysisBackend, cfg.AnalysisDBConnect = "", ""
	if input.AnalysisBackend == "" {
		return nil
	}
	if cfg.AnalysisBackend, err = ResolveBackend("analysis", input.AnalysisBackend, input.AnalysisDBConnect); err != nil {
		return err
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect

	if cfg.CacheBackend != schema.SQLiteBackend || cfg.AnalysisBackend != schema.SQLiteBackend {
		return nil
	}
	// The two stores must not share one SQLite file
	cachePath, analysisPath := cfg.CacheDBConnect, cfg.AnalysisDBConnect
	if cachePath == "" {
		cachePath = GetCacheDBFilePath()
	}
	if analysisPath == "" {
		analysisPath = GetAnalysisDBFilePath()
	}
	if cachePath == analysisPath {
		return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cachePath)
	}
	return nil
}

// validateSimpleInputs copies and validates scalar inputs.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CatalogPath = strings.TrimSpace(input.Catalog)
	cfg.Args = input.Args
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width
	cfg.SortKey = strings.TrimSpace(input.Sort)

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Capacity < 1 || input.Capacity > MaxCapacity {
		return fmt.Errorf("capacity must be between 1 and %d (received %d)", MaxCapacity, input.Capacity)
	}
	cfg.Capacity = input.Capacity

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}

	return validateBackendConfigs(cfg, input)
}

// processFilters validates thresholds. The --global-south shortcut mirrors the dashboard toggle.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	if !validThreshold(input.MinAverage) && input.MinAverage != 0 {
		return fmt.Errorf("min-average must be between %.1f and %.1f (received %.2f)", schema.MinScore, schema.MaxScore, input.MinAverage)
	}
	cfg.MinAverage = input.MinAverage

	cfg.FilterDim = strings.TrimSpace(input.FilterDim)
	cfg.FilterMin = input.FilterMin
	if input.GlobalSouth {
		if cfg.FilterDim != "" && cfg.FilterDim != "gsa" && cfg.FilterDim != string(schema.GlobalSouthAdoptability) {
			return fmt.Errorf("--global-south cannot be combined with --filter-dim %s", cfg.FilterDim)
		}
		cfg.FilterDim = "gsa"
		if cfg.FilterMin == 0 {
			cfg.FilterMin = schema.DefaultGlobalSouthThreshold
		}
	}
	if cfg.FilterDim != "" && !validThreshold(cfg.FilterMin) {
		return fmt.Errorf("filter-min must be between %.1f and %.1f (received %.2f)", schema.MinScore, schema.MaxScore, cfg.FilterMin)
	}
	return nil
}

// processEdits parses --set entries of the form "dimension=value".
func processEdits(cfg *Config, input *ConfigRawInput) error {
	cfg.Edits = nil
	for _, raw := range input.Set {
		for part := range strings.SplitSeq(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			edit, err := ParseScoreEdit(part)
			if err != nil {
				return fmt.Errorf("invalid --set value: %w", err)
			}
			cfg.Edits = append(cfg.Edits, edit)
		}
	}
	return nil
}

// ParseScoreEdit parses "dimension=value". The value is not clamped here.
func ParseScoreEdit(s string) (ScoreEdit, error) {
	key, valueStr, ok := strings.Cut(s, "=")
	if !ok {
		return ScoreEdit{}, fmt.Errorf("invalid edit format '%s', expected 'dimension=value'", s)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ScoreEdit{}, fmt.Errorf("missing dimension in '%s'", s)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil || math.IsNaN(value) {
		return ScoreEdit{}, fmt.Errorf("invalid score '%s' for dimension %s", valueStr, key)
	}
	return ScoreEdit{Dimension: key, Value: value}, nil
}

// processCustomWeights checks that the provided weights are non-negative and sum up to 1.0.
// Dimension names are resolved once the catalogue is loaded.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	if len(input.Weights) == 0 {
		cfg.CustomWeights = nil
		return nil
	}
	sum := 0.0
	weights := make(map[string]float64, len(input.Weights))
	for key, w := range input.Weights {
		if w < 0 {
			return fmt.Errorf("custom weight for %s must be non-negative, got %.3f", key, w)
		}
		weights[key] = w
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("custom weights must sum to 1.0, got %.3f", sum)
	}
	cfg.CustomWeights = weights
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

func validThreshold(v float64) bool {
	return v >= schema.MinScore && v <= schema.MaxScore
}

// RevalidateRank re-checks ranking inputs that were set outside of flag parsing.
func RevalidateRank(cfg *Config) error {
	if cfg.ResultLimit <= 0 || cfg.ResultLimit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, cfg.ResultLimit)
	}
	if cfg.MinAverage != 0 && !validThreshold(cfg.MinAverage) {
		return fmt.Errorf("min-average must be between %.1f and %.1f (received %.2f)", schema.MinScore, schema.MaxScore, cfg.MinAverage)
	}
	if cfg.FilterDim != "" && !validThreshold(cfg.FilterMin) {
		return fmt.Errorf("filter-min must be between %.1f and %.1f (received %.2f)", schema.MinScore, schema.MaxScore, cfg.FilterMin)
	}
	return nil
}

// RevalidateEdits parses a comma-separated edit list into cfg.Edits.
func RevalidateEdits(cfg *Config, raw string) error {
	return processEdits(cfg, &ConfigRawInput{Set: []string{raw}})
}
