package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huangsam/greenscore/internal/contract"
	mcp_internal "github.com/huangsam/greenscore/internal/mcp"
	"github.com/huangsam/greenscore/schema"
)

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(&contract.Config{SentimentMaxLength: 2000}, mgr)

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
	}{
		{"evaluate_scores missing json", "evaluate_scores", map[string]any{"scores_json": " "}, "scores_json is required"},
		{"analyze_sentiment missing text", "analyze_sentiment", map[string]any{}, "text is required"},
		{"analyze_sentiment negative length", "analyze_sentiment", map[string]any{"text": "ok", "max_length": -5.0}, "max_length"},
		{"compare_benchmark missing pillar", "compare_benchmark", map[string]any{"e": 50.0, "s": 50.0}, "g is required"},
		{"compare_benchmark out of range", "compare_benchmark", map[string]any{"e": 150.0, "s": 50.0, "g": 50.0}, "between 0 and 100"},
		{"detect_risks missing text", "detect_risks", map[string]any{"e": 10.0}, "text is required"},
		{"extract_evidence missing text", "extract_evidence", map[string]any{}, "text is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.expected)
		})
	}
}

func TestMCPServerHandlers_EvaluateScores(t *testing.T) {
	res := callTool(t, "evaluate_scores", map[string]any{
		"scores_json": "```json\n{\"scores\": {\"E1\": 90, \"S1\": 60, \"G2\": 100}}\n```",
		"company":     "Acme Software",
	})
	require.False(t, res.IsError)

	var report schema.FinalReport
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	assert.Equal(t, 82.5, report.TotalScore)
	assert.Equal(t, schema.RankGold, report.Rank)
	assert.Equal(t, "technology", report.Metadata.Industry)
	assert.Equal(t, "mcp", report.Metadata.Source)
}

func TestMCPServerHandlers_CompareBenchmark(t *testing.T) {
	res := callTool(t, "compare_benchmark", map[string]any{
		"e": 72.0, "s": 65.0, "g": 80.0, "industry": "technology",
	})
	require.False(t, res.IsError)

	var cmp schema.BenchmarkComparison
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &cmp))
	assert.Equal(t, 7.0, cmp.Pillars[schema.Environmental].Delta)
	assert.Equal(t, -5.0, cmp.Pillars[schema.Social].Delta)
	assert.Equal(t, 5.0, cmp.Pillars[schema.Governance].Delta)
}

func TestMCPServerHandlers_DetectRisks(t *testing.T) {
	res := callTool(t, "detect_risks", map[string]any{
		"text": "A lawsuit and a fine followed the incident.",
		"e":    35.0,
	})
	require.False(t, res.IsError)

	var report schema.RiskReport
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &report))
	assert.Equal(t, 8, report.RiskScore)
	assert.Equal(t, schema.RiskLevel("LOW"), report.Level)
}

func TestMCPServerHandlers_TextTools(t *testing.T) {
	res := callTool(t, "analyze_sentiment", map[string]any{"text": "renewable energy and efficiency"})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), "overall_sentiment")

	res = callTool(t, "extract_evidence", map[string]any{"text": "Emissions of 4,500 tons CO2 in 2023."})
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), "4,500")

	res = callTool(t, "list_metrics", nil)
	require.False(t, res.IsError)
	assert.Contains(t, resultText(res), "Business ethics")
}
