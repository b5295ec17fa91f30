// Package outwriter has output and writer logic.
package outwriter

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"golang.org/x/term"
)

// ErrParquetUnsupported is returned when a view has no columnar form.
var ErrParquetUnsupported = errors.New("parquet output is only supported for rankings")

// ErrParquetNeedsFile is returned when parquet output would go to a terminal.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteRank prints a ranked mechanism list using the configured output format.
func (ow *OutWriter) WriteRank(ranked []schema.RankedMechanism, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return ErrParquetNeedsFile
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteRankResults(w, ranked, c, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteComparison prints the side-by-side comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteComparisonResults(w, result, c, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteMechanism prints the detail view of one mechanism.
func (ow *OutWriter) WriteMechanism(detail schema.MechanismDetail, c *schema.Catalog, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMechanismDetail(w, detail, c, cfg)
	}, successMessage(cfg.Output))
}

// WriteWhatIf prints an original versus edited score comparison.
func (ow *OutWriter) WriteWhatIf(result schema.WhatIfResult, c *schema.Catalog, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteWhatIfResults(w, result, c, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteCoverage prints the mechanism x objective coverage matrix.
func (ow *OutWriter) WriteCoverage(matrix schema.CoverageMatrix, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteCoverageMatrix(w, matrix, cfg)
	}, successMessage(cfg.Output))
}

// WriteSummary prints the catalogue overview and key findings.
func (ow *OutWriter) WriteSummary(report schema.SummaryReport, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteSummaryReport(w, report, cfg)
	}, successMessage(cfg.Output))
}

// WriteMetrics prints the dimension definitions, formula and score bands.
func (ow *OutWriter) WriteMetrics(model schema.MetricsRenderModel, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return ErrParquetUnsupported
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMetricsDefinitions(w, model, cfg)
	}, successMessage(cfg.Output))
}

// GetMaxTableNameWidth calculates the maximum width for mechanism names in table output
// based on terminal width and the number of score columns.
func GetMaxTableNameWidth(cfg *contract.Config, scoreColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Rank + ID + Average + Label with borders/padding
	baseWidth := 45
	baseWidth += scoreColumns * 12

	if cfg.Detail {
		baseWidth += 20 // Coverage glyphs + institutional requirement
	}

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 50 {
		return 50
	}
	return available
}
