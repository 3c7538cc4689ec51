package schema

import "time"

// Pillar is one of the three scoring dimensions of the catalog.
type Pillar struct {
	Code   PillarCode `json:"code" yaml:"code"`
	Name   string     `json:"name" yaml:"name"`
	Weight float64    `json:"weight" yaml:"weight"`
}

// Metric is a single scored indicator belonging to a pillar.
type Metric struct {
	Code      string     `json:"code" yaml:"code"`
	Name      string     `json:"name" yaml:"name"`
	Pillar    PillarCode `json:"pillar" yaml:"pillar"`
	Weight    float64    `json:"weight" yaml:"weight"`
	Mandatory bool       `json:"mandatory" yaml:"mandatory"`
}

// RawScoreSet maps metric codes to scores in [0,100]. Absent or zero means no evidence.
type RawScoreSet map[string]float64

// EvaluatorOutput is the decoded contract returned by the external evaluator.
type EvaluatorOutput struct {
	Scores   map[string]any        `json:"scores"`
	Insights map[PillarCode]string `json:"insights"`
	Flags    []string              `json:"flags"`
}

// PillarResult is the aggregated score of a single pillar.
type PillarResult struct {
	Score            float64 `json:"score" yaml:"score"`
	MandatoryMissing bool    `json:"mandatory_missing" yaml:"mandatory_missing"`
}

// AggregateResult is the output of score aggregation.
type AggregateResult struct {
	TotalScore   float64                     `json:"total_score" yaml:"total_score"`
	Rank         Rank                        `json:"rank" yaml:"rank"`
	PillarScores map[PillarCode]PillarResult `json:"pillar_scores" yaml:"pillar_scores"`
	RawScores    RawScoreSet                 `json:"raw_scores" yaml:"raw_scores"`
	Flags        *FlagSet                    `json:"flags" yaml:"flags"`
	Insights     map[PillarCode]string       `json:"insights,omitempty" yaml:"insights,omitempty"`
}

// PillarScoreMap returns the plain pillar scores keyed by pillar.
func (a AggregateResult) PillarScoreMap() map[PillarCode]float64 {
	out := make(map[PillarCode]float64, len(a.PillarScores))
	for p, r := range a.PillarScores {
		out[p] = r.Score
	}
	return out
}

// PillarSentiment is the keyword polarity read of one pillar.
type PillarSentiment struct {
	Sentiment        float64        `json:"sentiment" yaml:"sentiment"`
	Confidence       float64        `json:"confidence" yaml:"confidence"`
	PositiveMentions int            `json:"positive_mentions" yaml:"positive_mentions"`
	NegativeMentions int            `json:"negative_mentions" yaml:"negative_mentions"`
	Label            SentimentLabel `json:"label" yaml:"label"`
}

// SentimentResult is the output of the sentiment classifier.
type SentimentResult struct {
	Pillars        map[PillarCode]PillarSentiment `json:"pillars" yaml:"pillars"`
	Overall        SentimentLabel                 `json:"overall_sentiment" yaml:"overall_sentiment"`
	Confidence     float64                        `json:"confidence" yaml:"confidence"`
	Findings       []string                       `json:"key_findings" yaml:"key_findings"`
	TextLength     int                            `json:"text_length" yaml:"text_length"`
	AnalyzedLength int                            `json:"analyzed_length" yaml:"analyzed_length"`
}

// PillarComparison compares one pillar with its industry benchmark.
type PillarComparison struct {
	Company   float64         `json:"company_score" yaml:"company_score"`
	Benchmark float64         `json:"industry_benchmark" yaml:"industry_benchmark"`
	Delta     float64         `json:"difference" yaml:"difference"`
	Tier      PerformanceTier `json:"performance" yaml:"performance"`
}

// ComparisonTotals holds the flat-weighted overall comparison.
type ComparisonTotals struct {
	Company    float64 `json:"company_total" yaml:"company_total"`
	Benchmark  float64 `json:"benchmark_total" yaml:"benchmark_total"`
	Difference float64 `json:"difference" yaml:"difference"`
}

// BenchmarkComparison is the output of the benchmark comparator.
type BenchmarkComparison struct {
	Industry        string                          `json:"industry" yaml:"industry"`
	Pillars         map[PillarCode]PillarComparison `json:"comparison" yaml:"comparison"`
	Recommendations []string                        `json:"recommendations" yaml:"recommendations"`
	Totals          ComparisonTotals                `json:"overall" yaml:"overall"`
}

// RiskFinding is either a keyword finding or a low-score finding.
type RiskFinding struct {
	KeywordsFound []string   `json:"keywords_found,omitempty" yaml:"keywords_found,omitempty"`
	Count         int        `json:"count,omitempty" yaml:"count,omitempty"`
	Type          string     `json:"type,omitempty" yaml:"type,omitempty"`
	Pillar        PillarCode `json:"pillar,omitempty" yaml:"pillar,omitempty"`
	Score         float64    `json:"score,omitempty" yaml:"score,omitempty"`
	Message       string     `json:"message,omitempty" yaml:"message,omitempty"`
}

// RiskReport is the output of the risk detector.
type RiskReport struct {
	RiskScore       int           `json:"risk_score" yaml:"risk_score"`
	Level           RiskLevel     `json:"risk_level" yaml:"risk_level"`
	HighRisks       []RiskFinding `json:"high_risks" yaml:"high_risks"`
	MediumRisks     []RiskFinding `json:"medium_risks" yaml:"medium_risks"`
	LowRisks        []RiskFinding `json:"low_risks" yaml:"low_risks"`
	PriorityActions []string      `json:"priority_actions" yaml:"priority_actions"`
}

// EvidenceSet maps an evidence category to the raw numeric matches found in text.
type EvidenceSet map[string][]string

// Metadata describes where and when a report was produced.
type Metadata struct {
	EvaluationID string    `json:"evaluation_id,omitempty" yaml:"evaluation_id,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Source       string    `json:"source,omitempty" yaml:"source,omitempty"`
	Company      string    `json:"company,omitempty" yaml:"company,omitempty"`
	Industry     string    `json:"industry,omitempty" yaml:"industry,omitempty"`
	Model        string    `json:"model,omitempty" yaml:"model,omitempty"`
}

// FinalReport is the assembled result of an evaluation.
type FinalReport struct {
	TotalScore   float64                     `json:"total_score" yaml:"total_score"`
	Rank         Rank                        `json:"rank" yaml:"rank"`
	Badge        string                      `json:"badge" yaml:"badge"`
	PillarScores map[PillarCode]PillarResult `json:"pillar_scores" yaml:"pillar_scores"`
	RawScores    RawScoreSet                 `json:"raw_scores" yaml:"raw_scores"`
	Flags        *FlagSet                    `json:"flags" yaml:"flags"`
	Insights     map[PillarCode]string       `json:"insights,omitempty" yaml:"insights,omitempty"`
	Sentiment    *SentimentResult            `json:"sentiment,omitempty" yaml:"sentiment,omitempty"`
	Benchmark    *BenchmarkComparison        `json:"benchmark,omitempty" yaml:"benchmark,omitempty"`
	Risk         *RiskReport                 `json:"risk,omitempty" yaml:"risk,omitempty"`
	Evidence     EvidenceSet                 `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	Metadata     Metadata                    `json:"metadata" yaml:"metadata"`
}

// PillarScoreMap returns the plain pillar scores keyed by pillar.
func (r FinalReport) PillarScoreMap() map[PillarCode]float64 {
	out := make(map[PillarCode]float64, len(r.PillarScores))
	for p, res := range r.PillarScores {
		out[p] = res.Score
	}
	return out
}

// LeaderboardEntry is one ranked row of a batch evaluation.
type LeaderboardEntry struct {
	Position   int                    `json:"position" yaml:"position"`
	Source     string                 `json:"source" yaml:"source"`
	TotalScore float64                `json:"total_score" yaml:"total_score"`
	Rank       Rank                   `json:"rank" yaml:"rank"`
	Pillars    map[PillarCode]float64 `json:"pillars" yaml:"pillars"`
	Flags      int                    `json:"flag_count" yaml:"flag_count"`
}

// CheckResult is the outcome of a gating check.
type CheckResult struct {
	Passed     bool     `json:"passed" yaml:"passed"`
	TotalScore float64  `json:"total_score" yaml:"total_score"`
	Rank       Rank     `json:"rank" yaml:"rank"`
	MinRank    Rank     `json:"min_rank" yaml:"min_rank"`
	MinScore   float64  `json:"min_score" yaml:"min_score"`
	Violations []string `json:"violations" yaml:"violations"`
}
