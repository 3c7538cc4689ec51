package scoring

import (
	"fmt"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// LowScoreThreshold marks a pillar score as a high risk finding.
const LowScoreThreshold = 40.0

// FindingLowScore is the type of a finding raised from a pillar score.
const FindingLowScore = "low_score"

type riskTier struct {
	multiplier int
	keywords   []string
}

var (
	highRiskTier = riskTier{3, []string{
		"scandal", "violation", "lawsuit", "fine", "penalty",
		"investigation", "fraud", "corruption", "bribery",
		"vi phạm", "phạt", "điều tra", "tham nhũng",
	}}
	mediumRiskTier = riskTier{2, []string{
		"concern", "issue", "complaint", "dispute", "controversy",
		"non-compliance", "breach", "incident",
		"tranh chấp", "không tuân thủ", "sự cố",
	}}
	lowRiskTier = riskTier{1, []string{
		"improvement needed", "room for improvement", "below average",
		"cần cải thiện", "dưới trung bình",
	}}
)

// DetectRisks scans text for tiered risk keywords and flags pillars scoring below
// LowScoreThreshold. Low-score findings add priority actions but never change the risk score.
func DetectRisks(text string, pillarScores map[schema.PillarCode]float64) schema.RiskReport {
	lowered := strings.ToLower(text)
	report := schema.RiskReport{
		HighRisks:       []schema.RiskFinding{},
		MediumRisks:     []schema.RiskFinding{},
		LowRisks:        []schema.RiskFinding{},
		PriorityActions: []string{},
	}

	scan := func(tier riskTier, into *[]schema.RiskFinding) {
		found := matchedKeywords(lowered, tier.keywords)
		if len(found) == 0 {
			return
		}
		*into = append(*into, schema.RiskFinding{KeywordsFound: found, Count: len(found)})
		report.RiskScore += len(found) * tier.multiplier
	}
	scan(highRiskTier, &report.HighRisks)
	scan(mediumRiskTier, &report.MediumRisks)
	scan(lowRiskTier, &report.LowRisks)

	for _, p := range schema.AllPillars {
		score, ok := pillarScores[p]
		if !ok || score >= LowScoreThreshold {
			continue
		}
		name := p.Name()
		report.HighRisks = append(report.HighRisks, schema.RiskFinding{
			Type:    FindingLowScore,
			Pillar:  p,
			Score:   score,
			Message: fmt.Sprintf("%s score is critically low", name),
		})
		report.PriorityActions = append(report.PriorityActions,
			fmt.Sprintf("Prioritize improving %s (current score: %s)", name, formatScore(score)))
	}

	report.Level = RiskLevelFor(report.RiskScore)
	return report
}

// RiskLevelFor maps a risk score to its level.
func RiskLevelFor(score int) schema.RiskLevel {
	switch {
	case score > 20:
		return schema.RiskHigh
	case score > 10:
		return schema.RiskMedium
	default:
		return schema.RiskLow
	}
}

func formatScore(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
