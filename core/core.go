// Package core has core logic for selection, comparison, ranking and what-if edits.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/vmfs/core/agg"
	"github.com/huangsam/vmfs/core/algo"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/outwriter"
	"github.com/huangsam/vmfs/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// errNoMechanisms is returned by commands that need at least one mechanism id.
var errNoMechanisms = errors.New("at least one mechanism id is required")

// GetRankResults filters and ranks the catalogue by the configured criterion.
func GetRankResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.RankedMechanism, time.Duration, error) {
	start := time.Now()
	output, err := runRankCore(ctx, cfg, mgr)
	if err != nil {
		return nil, 0, err
	}
	return output.Ranked, time.Since(start), nil
}

// ExecuteRank prints the ranked and filtered mechanism list.
// It serves as the main entry point for the 'rank' command.
func ExecuteRank(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	output, err := runRankCore(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRank(output.Ranked, output.Catalog, cfg, time.Since(start))
}

// buildComparison toggles every id into a fresh comparison set.
// Ids beyond capacity are skipped with a warning; repeated ids count once.
func buildComparison(ctx context.Context, cfg *contract.Config, c *schema.Catalog, w agg.Weights) (*Session, error) {
	if len(cfg.Args) == 0 {
		return nil, errNoMechanisms
	}
	session := NewSession(c, WithWeights(w), WithCapacity(cfg.Capacity))
	seen := make(map[string]struct{}, len(cfg.Args))
	for _, id := range cfg.Args {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		added, err := session.Toggle(id)
		if err != nil {
			return nil, err
		}
		if !added && !shouldSuppressHeader(ctx) {
			contract.LogWarn("Comparison set is full", fmt.Errorf("ignoring %s (capacity %d)", id, session.Comparison().Capacity()))
		}
	}
	return session, nil
}

// runCompareCore loads the catalogue and builds the comparison.
func runCompareCore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ComparisonResult, *schema.Catalog, error) {
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return schema.ComparisonResult{}, nil, err
	}
	session, err := buildComparison(ctx, cfg, c, w)
	if err != nil {
		return schema.ComparisonResult{}, nil, err
	}
	return session.ComparisonResult(), c, nil
}

// GetCompareResults builds the side-by-side comparison of the requested mechanisms.
func GetCompareResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ComparisonResult, time.Duration, error) {
	start := time.Now()
	result, _, err := runCompareCore(ctx, cfg, mgr)
	if err != nil {
		return schema.ComparisonResult{}, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteCompare prints the comparison rows for up to capacity mechanisms.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, c, err := runCompareCore(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if !shouldSuppressHeader(ctx) && cfg.Output == schema.TextOut && cfg.OutputFile == "" {
		contract.LogCompareHeader(os.Stdout, cfg, result.Members)
	}
	return outwriter.NewOutWriter().WriteComparison(result, c, cfg, time.Since(start))
}

// OpenSession loads the catalogue and returns a session using the configured weights and capacity.
// The first positional id, when present, is selected.
func OpenSession(cfg *contract.Config, mgr contract.CacheManager) (*Session, error) {
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return nil, err
	}
	session := NewSession(c, WithWeights(w), WithCapacity(cfg.Capacity))
	if len(cfg.Args) > 0 {
		if err := session.Select(cfg.Args[0]); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// GetMechanismDetail returns the full view of the first requested mechanism.
func GetMechanismDetail(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.MechanismDetail, *schema.Catalog, error) {
	if len(cfg.Args) == 0 {
		return schema.MechanismDetail{}, nil, errNoMechanisms
	}
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return schema.MechanismDetail{}, nil, err
	}
	m, ok := c.Mechanism(cfg.Args[0])
	if !ok {
		return schema.MechanismDetail{}, nil, fmt.Errorf("%w: %s", ErrUnknownMechanism, cfg.Args[0])
	}
	criterion := algo.Criterion{Key: schema.AverageSort, Index: -1, Weights: w}
	return buildDetail(c, m, w, algo.Position(algo.Rank(c.Mechanisms, criterion), m.ID)), c, nil
}

// buildDetail flattens a mechanism into its detail view.
func buildDetail(c *schema.Catalog, m schema.Mechanism, w agg.Weights, rank int) schema.MechanismDetail {
	avg := agg.WeightedAverage(m.Scores, w)
	detail := schema.MechanismDetail{
		Rank:                     rank,
		ID:                       m.ID,
		Name:                     m.Name,
		ShortName:                m.ShortName,
		Description:              m.Description,
		InstitutionalRequirement: m.InstitutionalRequirement,
		Values:                   make([]schema.DimensionValue, c.Dimensions.Len()),
		Average:                  avg,
		Label:                    schema.GetPlainLabel(avg),
		Coverage:                 make([]schema.ObjectiveCoverage, len(c.Objectives)),
		EvidenceProduced:         m.EvidenceProduced,
		WhatItVerifies:           m.WhatItVerifies,
		Dependencies:             m.Dependencies,
		EvasionModes:             m.EvasionModes,
		Limitations:              m.Limitations,
		References:               m.References,
	}
	for i, d := range c.Dimensions {
		v := m.Scores.At(i)
		detail.Values[i] = schema.DimensionValue{Key: d.Key, Name: d.Name, Value: v, Label: schema.GetPlainLabel(v)}
	}
	for i, o := range c.Objectives {
		cell := m.CoverageFor(o.ID)
		detail.Coverage[i] = schema.ObjectiveCoverage{
			ObjectiveID:   o.ID,
			Name:          o.Name,
			Level:         cell.Level,
			Justification: cell.Justification,
		}
	}
	return detail
}

// ExecuteShow prints one mechanism with its radar chart.
func ExecuteShow(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	detail, c, err := GetMechanismDetail(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMechanism(detail, c, cfg)
}

// runWhatIfCore selects the first requested mechanism and applies the configured edits.
// Edits go through the same clamping and rounding as a drag and are never recorded.
func runWhatIfCore(cfg *contract.Config, mgr contract.CacheManager) (schema.WhatIfResult, *schema.Catalog, error) {
	if len(cfg.Args) == 0 {
		return schema.WhatIfResult{}, nil, errNoMechanisms
	}
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return schema.WhatIfResult{}, nil, err
	}
	session := NewSession(c, WithWeights(w), WithCapacity(cfg.Capacity))
	if err := session.Select(cfg.Args[0]); err != nil {
		return schema.WhatIfResult{}, nil, err
	}
	for _, edit := range cfg.Edits {
		if err := session.SetScoreByName(edit.Dimension, edit.Value); err != nil {
			return schema.WhatIfResult{}, nil, err
		}
	}
	result, err := session.WhatIf(cfg.SortKey)
	if err != nil {
		return schema.WhatIfResult{}, nil, err
	}
	return result, c, nil
}

// GetWhatIfResults applies the configured edits to one mechanism and reports the effect.
func GetWhatIfResults(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.WhatIfResult, time.Duration, error) {
	start := time.Now()
	result, _, err := runWhatIfCore(cfg, mgr)
	if err != nil {
		return schema.WhatIfResult{}, 0, err
	}
	return result, time.Since(start), nil
}

// ExecuteWhatIf prints the original and edited scores with the rank movement.
func ExecuteWhatIf(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, c, err := runWhatIfCore(cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteWhatIf(result, c, cfg, time.Since(start))
}

// GetCoverageMatrix builds the mechanism by objective coverage grid.
func GetCoverageMatrix(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.CoverageMatrix, error) {
	c, err := LoadCatalog(cfg, mgr)
	if err != nil {
		return schema.CoverageMatrix{}, err
	}
	matrix := schema.CoverageMatrix{
		Objectives: c.Objectives,
		Rows:       make([]schema.CoverageRow, len(c.Mechanisms)),
		Summary:    agg.Coverage(c),
	}
	for i, m := range c.Mechanisms {
		row := schema.CoverageRow{
			MechanismID: m.ID,
			Name:        m.DisplayName(),
			Cells:       make([]schema.CoverageCell, len(c.Objectives)),
		}
		for j, o := range c.Objectives {
			row.Cells[j] = m.CoverageFor(o.ID)
		}
		matrix.Rows[i] = row
	}
	return matrix, nil
}

// ExecuteCoverage prints the coverage matrix and its per-objective summary.
func ExecuteCoverage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	matrix, err := GetCoverageMatrix(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCoverage(matrix, cfg)
}

// GetSummary returns catalogue statistics and key findings.
func GetSummary(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.SummaryReport, error) {
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return schema.SummaryReport{}, err
	}
	summary := agg.Summarize(c, w)
	report := schema.SummaryReport{
		Summary:  summary,
		Coverage: agg.Coverage(c),
		Findings: c.Findings,
	}
	if m, ok := c.Mechanism(summary.TopMechanismID); ok {
		report.TopMechanismName = m.Name
	}
	return report, nil
}

// ExecuteSummary prints the catalogue overview.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	report, err := GetSummary(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummary(report, cfg)
}

// GetMetrics describes the dimensions and the weights of the derived average.
func GetMetrics(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.MetricsRenderModel, error) {
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return schema.MetricsRenderModel{}, err
	}
	if w == nil {
		w = agg.EqualWeights(c.Dimensions.Len())
	}
	model := schema.MetricsRenderModel{
		Dimensions: make([]schema.DimensionMetric, c.Dimensions.Len()),
		Formula:    "average = Σ(weight_i × score_i)",
		Bands:      schema.ScoreBands(),
	}
	if w.IsEqual() {
		model.Formula = "average = Σ score_i / D"
	}
	for i, d := range c.Dimensions {
		model.Dimensions[i] = schema.DimensionMetric{
			Key:         d.Key,
			Name:        d.Name,
			ShortName:   d.ShortName,
			Alias:       d.Alias,
			Description: d.Description,
			Weight:      w[i],
		}
	}
	return model, nil
}

// ExecuteMetrics prints the metric definitions.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	model, err := GetMetrics(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteMetrics(model, cfg)
}
