package scoring

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"strconv"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// FlagParseFailure is raised when the evaluator output is not valid JSON.
const FlagParseFailure = "scores unavailable: evaluator output could not be parsed"

// MissingMandatoryFlag returns the audit flag for a missing mandatory metric.
func MissingMandatoryFlag(m schema.Metric) string {
	return fmt.Sprintf("missing mandatory metric: %s (%s)", m.Code, m.Name)
}

// Aggregate computes pillar scores, the weighted total and the rank from raw metric scores.
// Neither raw nor flags are mutated; the returned flags are a fresh set.
func Aggregate(cat *Catalog, raw schema.RawScoreSet, flags *schema.FlagSet) schema.AggregateResult {
	outFlags := flags.Clone()
	pillarScores := make(map[schema.PillarCode]schema.PillarResult, len(cat.pillars))
	goldLocked := false
	total := 0.0

	for _, p := range cat.pillars {
		var weightedSum, available float64
		missing := false

		for _, m := range cat.MetricsOf(p.Code) {
			v := raw[m.Code]
			if v > 0 {
				weightedSum += v * m.Weight
				available += m.Weight
				continue
			}
			if m.Mandatory {
				missing = true
				goldLocked = true
				outFlags.Add(MissingMandatoryFlag(m))
			}
		}

		score := 0.0
		if available > 0 {
			score = weightedSum / available
		}
		if missing {
			score *= schema.MandatoryPenalty
		}
		score = round2(score)

		pillarScores[p.Code] = schema.PillarResult{Score: score, MandatoryMissing: missing}
		total += score * p.Weight
	}

	total = round2(total)
	return schema.AggregateResult{
		TotalScore:   total,
		Rank:         RankFor(total, goldLocked),
		PillarScores: pillarScores,
		RawScores:    maps.Clone(raw),
		Flags:        outFlags,
	}
}

// RankFor maps a total score to a rank. A gold lock demotes GOLD to SILVER.
func RankFor(total float64, goldLocked bool) schema.Rank {
	switch {
	case total >= schema.GoldThreshold && !goldLocked:
		return schema.RankGold
	case total >= schema.SilverThreshold:
		return schema.RankSilver
	case total >= schema.BronzeThreshold:
		return schema.RankBronze
	default:
		return schema.RankUnranked
	}
}

// AggregateBlob decodes an evaluator blob and aggregates it. It never fails: a blob
// that cannot be decoded yields empty scores and the parse-failure flag.
func AggregateBlob(cat *Catalog, blob string) schema.AggregateResult {
	out, ok := ParseEvaluatorOutput(blob)
	flags := schema.NewFlagSet(out.Flags...)
	if !ok {
		flags.Add(FlagParseFailure)
	}
	res := Aggregate(cat, CoerceScores(out.Scores), flags)
	res.Insights = out.Insights
	return res
}

// ParseEvaluatorOutput decodes the evaluator contract, tolerating Markdown code fences
// and loosely typed members. The boolean is false when the blob is not a JSON object.
func ParseEvaluatorOutput(blob string) (schema.EvaluatorOutput, bool) {
	empty := schema.EvaluatorOutput{
		Scores:   map[string]any{},
		Insights: map[schema.PillarCode]string{},
	}

	// Numbers stay json.Number so one out-of-range value cannot fail the whole document.
	dec := json.NewDecoder(strings.NewReader(StripCodeFence(blob)))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return empty, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return empty, false
	}

	out := empty
	if scores, ok := doc["scores"].(map[string]any); ok {
		out.Scores = scores
	}
	if insights, ok := doc["insights"].(map[string]any); ok {
		for k, v := range insights {
			if s, isStr := v.(string); isStr {
				out.Insights[schema.PillarCode(k)] = s
			} else if v != nil {
				out.Insights[schema.PillarCode(k)] = fmt.Sprint(v)
			}
		}
	}
	if flags, ok := doc["flags"].([]any); ok {
		for _, f := range flags {
			if s, isStr := f.(string); isStr {
				out.Flags = append(out.Flags, s)
			}
		}
	}
	return out, true
}

// StripCodeFence removes a surrounding Markdown code fence such as ```json ... ```.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// CoerceScores converts loosely typed values into a raw score set. Unparsable
// values become 0 and parsed values are clamped to [0, 100].
func CoerceScores(in map[string]any) schema.RawScoreSet {
	out := make(schema.RawScoreSet, len(in))
	for code, v := range in {
		out[code] = coerceScore(v)
	}
	return out
}

func coerceScore(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return clamp(f, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
