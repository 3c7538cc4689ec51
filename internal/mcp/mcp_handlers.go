package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// pillarArgs maps tool argument names to pillars.
var pillarArgs = []struct {
	name   string
	pillar schema.PillarCode
}{
	{"e", schema.Environmental},
	{"s", schema.Social},
	{"g", schema.Governance},
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// pillarScores reads e/s/g from the request. Absent scores are omitted unless required.
func pillarScores(request mcp.CallToolRequest, required bool) (map[schema.PillarCode]float64, error) {
	args := request.GetArguments()
	scores := make(map[schema.PillarCode]float64, len(pillarArgs))
	for _, a := range pillarArgs {
		if _, ok := args[a.name]; !ok {
			if required {
				return nil, fmt.Errorf("%s is required", a.name)
			}
			continue
		}
		v := request.GetFloat(a.name, -1)
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("%s must be a number between 0 and 100", a.name)
		}
		scores[a.pillar] = v
	}
	return scores, nil
}

func requiredText(request mcp.CallToolRequest) (string, error) {
	text := strings.TrimSpace(request.GetString("text", ""))
	if text == "" {
		return "", fmt.Errorf("text is required")
	}
	return text, nil
}

func (h *toolHandler) handleEvaluateScores(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	blob := request.GetString("scores_json", "")
	if strings.TrimSpace(blob) == "" {
		return mcp.NewToolResultError("scores_json is required"), nil
	}
	if ctx.Err() != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation cancelled: %v", ctx.Err())), nil
	}

	industry := request.GetString("industry", "")
	if industry == "" {
		industry = cfg.Industry
	}
	company := request.GetString("company", "")
	if company == "" {
		company = cfg.Company
	}

	report := core.EvaluateBlob(cfg, h.mgr, core.ReportInput{
		Blob:     blob,
		Text:     request.GetString("text", ""),
		Company:  company,
		Industry: industry,
		Source:   "mcp",
		Model:    "scores-json",
	})
	return jsonResult(report)
}

func (h *toolHandler) handleAnalyzeSentiment(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredText(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxLength := request.GetInt("max_length", h.baseCfg.SentimentMaxLength)
	if maxLength < 0 {
		return mcp.NewToolResultError("max_length must be positive"), nil
	}
	return jsonResult(scoring.AnalyzeSentiment(text, maxLength))
}

func (h *toolHandler) handleCompareBenchmark(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scores, err := pillarScores(request, true)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scores: %v", err)), nil
	}
	industry := request.GetString("industry", h.baseCfg.Industry)
	return jsonResult(scoring.CompareBenchmark(scores, industry))
}

func (h *toolHandler) handleDetectRisks(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredText(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	scores, err := pillarScores(request, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scores: %v", err)), nil
	}
	return jsonResult(scoring.DetectRisks(text, scores))
}

func (h *toolHandler) handleExtractEvidence(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := requiredText(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(scoring.ExtractEvidence(text))
}

func (h *toolHandler) handleListMetrics(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cat := h.baseCfg.Catalog
	if cat == nil {
		cat = scoring.DefaultCatalog()
	}
	return jsonResult(struct {
		Pillars []schema.Pillar `json:"pillars"`
		Metrics []schema.Metric `json:"metrics"`
	}{cat.Pillars(), cat.Metrics()})
}
