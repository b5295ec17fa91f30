package contract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// catalogName returns the display name of the configured catalogue.
func catalogName(cfg *Config) string {
	if cfg.CatalogPath == "" {
		return "embedded"
	}
	return filepath.Base(cfg.CatalogPath)
}

// LogRankHeader prints a concise, 2-line header for each ranking.
func LogRankHeader(w io.Writer, cfg *Config) {
	sortKey := cfg.SortKey
	if sortKey == "" {
		sortKey = "average"
	}
	weighting := "equal"
	if len(cfg.CustomWeights) > 0 {
		weighting = "custom"
	}

	// Line 1: The catalogue and criterion
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🔎 Catalogue: %s (Sort: %s, Weights: %s)\n", catalogName(cfg), sortKey, weighting)
	} else {
		_, _ = fmt.Fprintf(w, "Catalogue: %s (Sort: %s, Weights: %s)\n", catalogName(cfg), sortKey, weighting)
	}

	// Line 2: The active filters
	filters := []string{fmt.Sprintf("average >= %.1f", cfg.MinAverage)}
	if cfg.FilterDim != "" {
		filters = append(filters, fmt.Sprintf("%s >= %.1f", cfg.FilterDim, cfg.FilterMin))
	}
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🧮 Filters: %s\n", strings.Join(filters, ", "))
	} else {
		_, _ = fmt.Fprintf(w, "Filters: %s\n", strings.Join(filters, ", "))
	}
}

// LogCompareHeader prints a header for side-by-side comparison.
func LogCompareHeader(w io.Writer, cfg *Config, members []string) {
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🔎 Catalogue: %s\n", catalogName(cfg))
		_, _ = fmt.Fprintf(w, "📊 Comparing: %s (capacity %d)\n", strings.Join(members, " ↔ "), cfg.Capacity)
		return
	}
	_, _ = fmt.Fprintf(w, "Catalogue: %s\n", catalogName(cfg))
	_, _ = fmt.Fprintf(w, "Comparing: %s (capacity %d)\n", strings.Join(members, " <-> "), cfg.Capacity)
}
