// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/huangsam/greenscore/internal/contract"
)

// NewMCPServer initializes and configures the GreenScore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"GreenScore ESG Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: evaluate_scores ---
	s.AddTool(mcp.NewTool("evaluate_scores",
		mcp.WithDescription("Aggregate evaluator metric scores into pillar scores, a total and a rank, with benchmark, risk and sentiment."),
		mcp.WithString("scores_json", mcp.Description(`Evaluator JSON, e.g. {"scores": {"E1": 80, "G2": 70}, "insights": {}, "flags": []}.`), mcp.Required()),
		mcp.WithString("text", mcp.Description("Optional report or news text for sentiment, risk and evidence.")),
		mcp.WithString("industry", mcp.Description("Benchmark industry (e.g., technology, finance, energy).")),
		mcp.WithString("company", mcp.Description("Company name, used to infer the industry when none is given.")),
	), h.handleEvaluateScores)

	// --- 2. Tool: analyze_sentiment ---
	s.AddTool(mcp.NewTool("analyze_sentiment",
		mcp.WithDescription("Keyword sentiment per ESG pillar."),
		mcp.WithString("text", mcp.Description("Text to analyze."), mcp.Required()),
		mcp.WithNumber("max_length", mcp.Description("Number of characters to analyze (defaults to 2000).")),
	), h.handleAnalyzeSentiment)

	// --- 3. Tool: compare_benchmark ---
	s.AddTool(mcp.NewTool("compare_benchmark",
		mcp.WithDescription("Compare pillar scores against an industry benchmark."),
		mcp.WithNumber("e", mcp.Description("Environmental score (0-100)."), mcp.Required()),
		mcp.WithNumber("s", mcp.Description("Social score (0-100)."), mcp.Required()),
		mcp.WithNumber("g", mcp.Description("Governance score (0-100)."), mcp.Required()),
		mcp.WithString("industry", mcp.Description("Benchmark industry. Unknown values use the default profile.")),
	), h.handleCompareBenchmark)

	// --- 4. Tool: detect_risks ---
	s.AddTool(mcp.NewTool("detect_risks",
		mcp.WithDescription("Scan text for ESG risk keywords and flag low pillar scores."),
		mcp.WithString("text", mcp.Description("Text to scan."), mcp.Required()),
		mcp.WithNumber("e", mcp.Description("Optional environmental score (0-100).")),
		mcp.WithNumber("s", mcp.Description("Optional social score (0-100).")),
		mcp.WithNumber("g", mcp.Description("Optional governance score (0-100).")),
	), h.handleDetectRisks)

	// --- 5. Tool: extract_evidence ---
	s.AddTool(mcp.NewTool("extract_evidence",
		mcp.WithDescription("Extract quantitative ESG evidence (emissions, energy, water, diversity) from text."),
		mcp.WithString("text", mcp.Description("Text to scan."), mcp.Required()),
	), h.handleExtractEvidence)

	// --- 6. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List the active pillars and metrics with their weights."),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the GreenScore MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
