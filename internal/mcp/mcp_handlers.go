package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/vmfs/core"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// jsonResult marshals a tool payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// splitIDs parses a comma-separated id list, dropping blanks.
func splitIDs(raw string) []string {
	var ids []string
	for id := range strings.SplitSeq(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *toolHandler) handleRankMechanisms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("sort", ""); s != "" {
		cfg.SortKey = s
	}
	if m := request.GetFloat("min_average", 0); m != 0 {
		cfg.MinAverage = m
	}
	if d := request.GetString("filter_dim", ""); d != "" {
		cfg.FilterDim = d
		cfg.FilterMin = request.GetFloat("filter_min", 0)
	}
	if request.GetBool("global_south", false) {
		cfg.FilterDim = "gsa"
		cfg.FilterMin = request.GetFloat("filter_min", schema.DefaultGlobalSouthThreshold)
	}
	if l := request.GetInt("limit", 0); l != 0 {
		cfg.ResultLimit = l
	}

	if err := contract.RevalidateRank(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid ranking parameters: %v", err)), nil
	}

	ranked, _, err := core.GetRankResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(ranked)
}

func (h *toolHandler) handleCompareMechanisms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.Args = splitIDs(request.GetString("ids", ""))
	if len(cfg.Args) == 0 {
		return mcp.NewToolResultError("ids is required"), nil
	}

	result, _, err := core.GetCompareResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetMechanism(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	id := strings.TrimSpace(request.GetString("id", ""))
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	cfg.Args = []string{id}

	detail, _, err := core.GetMechanismDetail(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(detail)
}

func (h *toolHandler) handleWhatIf(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	id := strings.TrimSpace(request.GetString("id", ""))
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}
	cfg.Args = []string{id}
	if s := request.GetString("sort", ""); s != "" {
		cfg.SortKey = s
	}

	if err := contract.RevalidateEdits(cfg, request.GetString("edits", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid edits: %v", err)), nil
	}
	if len(cfg.Edits) == 0 {
		return mcp.NewToolResultError("edits is required"), nil
	}

	result, _, err := core.GetWhatIfResults(core.WithSkipTracking(core.WithSuppressHeader(ctx)), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("what-if failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleCoverageMatrix(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	matrix, err := core.GetCoverageMatrix(core.WithSuppressHeader(ctx), h.baseCfg.Clone(), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coverage failed: %v", err)), nil
	}
	return jsonResult(matrix)
}

func (h *toolHandler) handleCatalogSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := core.GetSummary(core.WithSuppressHeader(ctx), h.baseCfg.Clone(), h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(report)
}
