package scoring

import (
	"regexp"
	"strings"

	"github.com/huangsam/greenscore/schema"
)

// maxEvidencePerCategory caps the matches kept per evidence category.
const maxEvidencePerCategory = 5

type evidencePattern struct {
	category string
	re       *regexp.Regexp
}

// evidencePatterns capture the leading number of quantitative ESG disclosures.
var evidencePatterns = []evidencePattern{
	{"emissions", regexp.MustCompile(`(?i)(\d+(?:,\d+)?(?:\.\d+)?)\s*(?:tấn|tons?|tonnes?|kg)?\s*(?:CO2|carbon|phát thải)`)},
	{"energy", regexp.MustCompile(`(?i)(\d+(?:,\d+)?(?:\.\d+)?)\s*(?:MWh|GWh|kWh|điện)`)},
	{"water", regexp.MustCompile(`(?i)(\d+(?:,\d+)?(?:\.\d+)?)\s*(?:m3|lít|liters?|nước)`)},
	{"diversity", regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*%\s*(?:female|women|nữ|phụ nữ)`)},
}

// ExtractEvidence returns up to five numeric matches per category. Empty categories are omitted.
func ExtractEvidence(text string) schema.EvidenceSet {
	out := make(schema.EvidenceSet)
	for _, p := range evidencePatterns {
		matches := p.re.FindAllStringSubmatch(text, maxEvidencePerCategory)
		if len(matches) == 0 {
			continue
		}
		values := make([]string, 0, len(matches))
		for _, m := range matches {
			values = append(values, m[1])
		}
		out[p.category] = values
	}
	return out
}

type industryGroup struct {
	benchmark string
	keywords  []string
}

// industryGroups maps company-name keywords to a benchmark profile.
var industryGroups = []industryGroup{
	{"finance", []string{"finance", "banking", "tài chính", "ngân hàng"}},
	{"technology", []string{"technology", "công nghệ", "software", "phần mềm"}},
	{"manufacturing", []string{"manufacturing", "sản xuất", "công nghiệp"}},
	{"retail", []string{"retail", "bán lẻ", "thương mại"}},
	{"energy", []string{"energy", "năng lượng", "điện", "oil", "gas"}},
	{"retail", []string{"real estate", "bất động sản", "property"}},
	{"manufacturing", []string{"food", "thực phẩm", "beverage", "đồ uống"}},
	{"healthcare", []string{"pharmaceutical", "dược phẩm", "healthcare", "y tế"}},
	{"technology", []string{"telecommunication", "viễn thông", "telco"}},
}

// fallbackIndustryKeywords is returned when no industry keyword matches.
var fallbackIndustryKeywords = []string{"general", "business"}

// InferIndustry detects industry keywords in a company name. It returns the benchmark
// key of the first matching group, or DefaultIndustry, and every keyword of the matched groups.
func InferIndustry(companyName string) (string, []string) {
	lowered := strings.ToLower(companyName)
	industry := DefaultIndustry
	var keywords []string
	for _, g := range industryGroups {
		if countPresent(lowered, g.keywords) == 0 {
			continue
		}
		if industry == DefaultIndustry {
			industry = g.benchmark
		}
		keywords = append(keywords, g.keywords...)
	}
	if len(keywords) == 0 {
		return DefaultIndustry, append([]string(nil), fallbackIndustryKeywords...)
	}
	return industry, keywords
}
