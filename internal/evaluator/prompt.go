package evaluator

import (
	"fmt"
	"strings"

	"github.com/huangsam/greenscore/core/scoring"
	"github.com/huangsam/greenscore/internal/contract"
	"github.com/huangsam/greenscore/schema"
)

const systemPrompt = `You are a professional ESG auditor.
Read the report and score each ESG metric strictly from the evidence it contains.
Return ONLY valid JSON. Do not add explanations or markdown.`

// BuildPrompt renders the system and user messages for an evaluation request.
func BuildPrompt(req contract.EvaluationRequest) (string, string) {
	metrics := req.Metrics
	if len(metrics) == 0 {
		metrics = scoring.DefaultMetrics()
	}

	var sb strings.Builder
	subject := strings.TrimSpace(req.Company)
	if subject == "" {
		subject = "the company"
	}
	if req.Ticker != "" {
		subject += " (" + req.Ticker + ")"
	}
	fmt.Fprintf(&sb, "Analyze the ESG disclosures of %s and return JSON with EXACTLY this structure:\n\n", subject)

	sb.WriteString("{\n  \"scores\": {\n")
	for i, m := range metrics {
		sep := ","
		if i == len(metrics)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    %q: <number 0-100>%s\n", m.Code, sep)
	}
	sb.WriteString("  },\n  \"insights\": {\n")
	for i, p := range schema.AllPillars {
		sep := ","
		if i == len(schema.AllPillars)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "    %q: \"short summary of the pillar\"%s\n", p, sep)
	}
	sb.WriteString("  },\n  \"flags\": [\"important warnings, if any\"]\n}\n\n")

	sb.WriteString("Metrics:\n")
	descs := make([]string, 0, len(metrics))
	for _, m := range metrics {
		descs = append(descs, fmt.Sprintf("%s (%s)", m.Code, m.Name))
	}
	sb.WriteString(strings.Join(descs, ", "))

	sb.WriteString(`

Scoring rules:
- Score a metric only when the report gives evidence for it. Use 0 when there is no evidence.
- Use 0-20 when the disclosure is vague or purely qualitative.
- Lower the affected pillar when the news signals show controversies, fines or scandals.
- Add a flag for every controversy you account for.
`)

	if news := strings.TrimSpace(req.NewsText); news != "" {
		sb.WriteString("\nNEWS SIGNALS:\n")
		sb.WriteString(news)
		sb.WriteString("\n")
	}

	sb.WriteString("\nREPORT CONTENT:\n")
	sb.WriteString(req.ReportText)
	sb.WriteString("\n\nRETURN ONLY JSON.")
	return systemPrompt, sb.String()
}
