// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"
	"fmt"

	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the VMFS MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Verification Mechanism Feasibility Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: rank_mechanisms ---
	s.AddTool(mcp.NewTool("rank_mechanisms",
		mcp.WithDescription("Rank verification mechanisms by derived average or by a single dimension, with optional filters."),
		mcp.WithString("sort", mcp.Description("Ranking criterion: 'average' or a dimension key/alias (tf, pt, si, gsa). Defaults to 'average'.")),
		mcp.WithNumber("min_average", mcp.Description("Keep mechanisms whose derived average is at least this value (1-5).")),
		mcp.WithString("filter_dim", mcp.Description("Dimension to threshold on (e.g. 'gsa').")),
		mcp.WithNumber("filter_min", mcp.Description("Minimum value for filter_dim (1-5).")),
		mcp.WithBoolean("global_south", mcp.Description("Shortcut for filter_dim=gsa with a 3.5 threshold.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleRankMechanisms)

	// --- 2. Tool: compare_mechanisms ---
	capacity := baseCfg.Capacity
	if capacity < 1 {
		capacity = schema.DefaultCapacity
	}
	s.AddTool(mcp.NewTool("compare_mechanisms",
		mcp.WithDescription(fmt.Sprintf("Compare up to %d mechanisms side by side, flagging the best value per dimension.", capacity)),
		mcp.WithString("ids", mcp.Description("Comma-separated mechanism ids in display order."), mcp.Required()),
	), h.handleCompareMechanisms)

	// --- 3. Tool: get_mechanism ---
	s.AddTool(mcp.NewTool("get_mechanism",
		mcp.WithDescription("Get the full profile of one mechanism: scores, coverage, dependencies and limitations."),
		mcp.WithString("id", mcp.Description("Mechanism id."), mcp.Required()),
	), h.handleGetMechanism)

	// --- 4. Tool: what_if ---
	s.AddTool(mcp.NewTool("what_if",
		mcp.WithDescription("Apply hypothetical score edits to a mechanism and report the new average and rank. Nothing is persisted."),
		mcp.WithString("id", mcp.Description("Mechanism id."), mcp.Required()),
		mcp.WithString("edits", mcp.Description("Comma-separated 'dimension=value' edits (e.g. 'tf=4.5,gsa=3')."), mcp.Required()),
		mcp.WithString("sort", mcp.Description("Ranking criterion used for the rank movement. Defaults to 'average'.")),
	), h.handleWhatIf)

	// --- 5. Tool: coverage_matrix ---
	s.AddTool(mcp.NewTool("coverage_matrix",
		mcp.WithDescription("Get the mechanism x verification objective coverage matrix with per-objective totals."),
	), h.handleCoverageMatrix)

	// --- 6. Tool: catalog_summary ---
	s.AddTool(mcp.NewTool("catalog_summary",
		mcp.WithDescription("Get catalogue statistics, the top mechanism and key findings."),
	), h.handleCatalogSummary)

	return s
}

// StartMCPServer starts the VMFS MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
