package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/vmfs/schema"
)

// Score band constants.
const (
	VeryHighValue = "Very High" // Very high feasibility
	HighValue     = "High"      // High feasibility
	ModerateValue = "Moderate"  // Moderate feasibility
	LowValue      = "Low"       // Low feasibility
	VeryLowValue  = "Very Low"  // Very low feasibility
)

// Color variables for console output.
var (
	VeryHighColor = color.New(color.FgGreen, color.Bold) // VeryHighColor mirrors the deep teal band.
	HighColor     = color.New(color.FgBlue, color.Bold)  // HighColor mirrors the blue band.
	ModerateColor = color.New(color.FgWhite)             // ModerateColor is the neutral band.
	LowColor      = color.New(color.FgYellow)            // LowColor mirrors the orange band.
	VeryLowColor  = color.New(color.FgRed, color.Bold)   // VeryLowColor mirrors the crimson band.
)

// GetPlainLabel is the uncolored band used by csv and json output.
func GetPlainLabel(score float64) string {
	return schema.GetPlainLabel(score)
}

// GetColorLabel is the band as printed in text tables.
func GetColorLabel(score float64) string {
	return ColorForScore(score).Sprint(GetPlainLabel(score))
}

// bandColors maps every band label to its console color.
var bandColors = map[string]*color.Color{
	VeryHighValue: VeryHighColor,
	HighValue:     HighColor,
	ModerateValue: ModerateColor,
	LowValue:      LowColor,
	VeryLowValue:  VeryLowColor,
}

// ColorForScore returns the band color of a score.
func ColorForScore(score float64) *color.Color {
	if c, ok := bandColors[GetPlainLabel(score)]; ok {
		return c
	}
	return VeryLowColor
}

// SelectOutputFile creates filePath, or returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// homeFile places a dotfile in the user's home, or the working directory when home is unknown.
func homeFile(name string) string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, name)
	}
	return name
}

// GetCacheDBFilePath is the default SQLite file for the catalogue cache.
func GetCacheDBFilePath() string { return homeFile(".vmfs_cache.db") }

// GetAnalysisDBFilePath is the default SQLite file for ranking history.
func GetAnalysisDBFilePath() string { return homeFile(".vmfs_analysis.db") }

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis and one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString accepts yes/no, true/false and 1/0 in any case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
