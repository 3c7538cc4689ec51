package scoring

import (
	"fmt"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// DefaultSentimentLength is the number of runes analyzed when no limit is given.
const DefaultSentimentLength = 2000

// sentimentThreshold separates neutral from polar labels.
const sentimentThreshold = 0.3

type lexicon struct {
	positive []string
	negative []string
}

// sentimentLexicons holds bilingual (English/Vietnamese) polarity keywords per pillar.
var sentimentLexicons = map[schema.PillarCode]lexicon{
	schema.Environmental: {
		positive: []string{
			"renewable energy", "carbon neutral", "net zero", "green energy",
			"emissions reduction", "sustainability", "clean energy", "solar",
			"wind power", "energy efficiency", "recycling", "circular economy",
			"năng lượng tái tạo", "giảm phát thải", "trung hòa carbon",
		},
		negative: []string{
			"pollution", "toxic waste", "oil spill", "deforestation",
			"high emissions", "environmental damage", "carbon intensive",
			"ô nhiễm", "chất thải độc hại", "phá rừng",
		},
	},
	schema.Social: {
		positive: []string{
			"employee welfare", "diversity", "inclusion", "fair wage", "training",
			"health and safety", "community engagement", "labor rights",
			"gender equality", "employee benefits",
			"phúc lợi nhân viên", "đa dạng", "công bằng", "đào tạo",
		},
		negative: []string{
			"discrimination", "labor violation", "unsafe workplace", "child labor",
			"harassment", "poor working conditions",
			"phân biệt đối xử", "vi phạm lao động",
		},
	},
	schema.Governance: {
		positive: []string{
			"board independence", "transparency", "ethics", "compliance",
			"accountability", "anti-corruption", "stakeholder engagement",
			"risk management", "data privacy", "corporate governance",
			"minh bạch", "đạo đức", "tuân thủ",
		},
		negative: []string{
			"corruption", "bribery", "fraud", "scandal", "conflict of interest",
			"lack of transparency", "governance failure",
			"tham nhũng", "hối lộ", "gian lận",
		},
	},
}

// AnalyzeSentiment reads keyword polarity per pillar from the first maxLength runes of text.
// Each keyword counts once when present. Pillars without any mention get no entry.
func AnalyzeSentiment(text string, maxLength int) schema.SentimentResult {
	if maxLength <= 0 {
		maxLength = DefaultSentimentLength
	}
	runes := []rune(text)
	analyzed := min(len(runes), maxLength)
	lowered := strings.ToLower(string(runes[:analyzed]))

	res := schema.SentimentResult{
		Pillars:        make(map[schema.PillarCode]schema.PillarSentiment),
		Overall:        schema.SentimentNeutral,
		Findings:       []string{},
		TextLength:     len(runes),
		AnalyzedLength: analyzed,
	}

	var sentimentSum, confidenceSum float64
	for _, p := range schema.AllPillars {
		lex := sentimentLexicons[p]
		pos := countPresent(lowered, lex.positive)
		neg := countPresent(lowered, lex.negative)
		total := pos + neg
		if total == 0 {
			continue
		}

		sentiment := float64(pos-neg) / float64(total)
		confidence := round2(min(float64(total)/10.0, 1.0))
		label := SentimentLabelFor(sentiment)
		res.Pillars[p] = schema.PillarSentiment{
			Sentiment:        sentiment,
			Confidence:       confidence,
			PositiveMentions: pos,
			NegativeMentions: neg,
			Label:            label,
		}
		sentimentSum += sentiment
		confidenceSum += confidence

		switch label {
		case schema.SentimentPositive:
			res.Findings = append(res.Findings, fmt.Sprintf("positive signal on %s", p.Name()))
		case schema.SentimentNegative:
			res.Findings = append(res.Findings, fmt.Sprintf("negative signal on %s", p.Name()))
		}
	}

	if n := len(res.Pillars); n > 0 {
		res.Overall = SentimentLabelFor(sentimentSum / float64(n))
		res.Confidence = round2(confidenceSum / float64(n))
	}
	return res
}

// SentimentLabelFor maps a sentiment value to its label.
func SentimentLabelFor(v float64) schema.SentimentLabel {
	switch {
	case v > sentimentThreshold:
		return schema.SentimentPositive
	case v < -sentimentThreshold:
		return schema.SentimentNegative
	default:
		return schema.SentimentNeutral
	}
}

// countPresent counts the keywords that occur at least once in text.
func countPresent(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// matchedKeywords returns the keywords that occur in text, in list order.
func matchedKeywords(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
