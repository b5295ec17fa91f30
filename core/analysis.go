package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/vmfs/core/agg"
	"github.com/huangsam/vmfs/core/algo"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
)

// rankOutput is the shared result of the rank pipeline.
type rankOutput struct {
	Catalog *schema.Catalog
	Weights agg.Weights
	Ranked  []schema.RankedMechanism
}

// prepareCatalog loads the catalogue and resolves the configured weights against it.
func prepareCatalog(cfg *contract.Config, mgr contract.CacheManager) (*schema.Catalog, agg.Weights, error) {
	c, err := LoadCatalog(cfg, mgr)
	if err != nil {
		return nil, nil, err
	}
	w, err := agg.NewWeights(c.Dimensions, cfg.CustomWeights)
	if err != nil {
		return nil, nil, err
	}
	return c, w, nil
}

// runRankCore performs the common Load, Filtering, Ranking and Tracking steps.
func runRankCore(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*rankOutput, error) {
	if !shouldSuppressHeader(ctx) {
		contract.LogRankHeader(os.Stdout, cfg)
	}
	start := time.Now()

	// --- 1. Load catalogue (with caching) ---
	c, w, err := prepareCatalog(cfg, mgr)
	if err != nil {
		return nil, err
	}

	// --- 2. Resolve criterion and filters ---
	criterion, err := algo.ResolveSortKey(c.Dimensions, cfg.SortKey, w)
	if err != nil {
		return nil, err
	}
	candidates := c.Mechanisms
	if cfg.FilterDim != "" {
		i, ok := c.Dimensions.Resolve(cfg.FilterDim)
		if !ok {
			return nil, fmt.Errorf("invalid filter dimension %q: %w", cfg.FilterDim, schema.ErrUnknownDimension)
		}
		candidates = algo.FilterDimension(candidates, i, cfg.FilterMin)
	}

	// --- 3. Rank ---
	ranked := algo.Limit(algo.RankFiltered(candidates, criterion, cfg.MinAverage), cfg.ResultLimit)
	enriched := algo.Enrich(ranked, c.Dimensions, w)

	// --- 4. Record the run ---
	if !shouldSkipTracking(ctx) {
		trackRanking(cfg, mgr, enriched, start)
	}

	return &rankOutput{Catalog: c, Weights: w, Ranked: enriched}, nil
}

// trackRanking stores a ranking over original scores. Failures are logged, never returned.
func trackRanking(cfg *contract.Config, mgr contract.CacheManager, ranked []schema.RankedMechanism, start time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return
	}

	// --- 0. Begin Analysis Tracking ---
	configParams := map[string]any{
		"catalog":      cfg.CatalogPath,
		"sort":         cfg.SortKey,
		"min_average":  cfg.MinAverage,
		"filter_dim":   cfg.FilterDim,
		"filter_min":   cfg.FilterMin,
		"result_limit": cfg.ResultLimit,
	}
	if len(cfg.CustomWeights) > 0 {
		configParams["weights"] = cfg.CustomWeights
	}
	analysisID, err := store.BeginAnalysis(start, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return
	}

	// --- 1. Per-mechanism rows ---
	now := time.Now()
	for _, r := range ranked {
		scoresJSON, err := json.Marshal(r.Scores)
		if err != nil {
			logTrackingError("RecordRankingResult", r.ID, err)
			continue
		}
		record := schema.RankingResultRecord{
			AnalysisID:     analysisID,
			MechanismID:    r.ID,
			AnalysisTime:   now,
			RankPosition:   int32(r.Rank),
			DerivedAverage: r.Average,
			ScoreBand:      r.Label,
			ScoresJSON:     string(scoresJSON),
		}
		if err := store.RecordRankingResult(analysisID, record); err != nil {
			logTrackingError("RecordRankingResult", r.ID, err)
		}
	}

	// --- 2. End Analysis Tracking ---
	if err := store.EndAnalysis(analysisID, time.Now(), len(ranked)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting ranking.
func logTrackingError(operation, id string, err error) {
	contract.LogWarn(fmt.Sprintf("Analysis tracking failed for %s on %s", operation, id), err)
}
