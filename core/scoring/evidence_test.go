package scoring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huangsam/greenscore/schema"
)

// TestExtractEvidence tests numeric evidence extraction per category.
func TestExtractEvidence(t *testing.T) {
	text := "We emitted 1,200 tons CO2 and used 350 MWh of power; 45% women in management. Water use was 20 m3."
	got := ExtractEvidence(text)
	assert.Equal(t, schema.EvidenceSet{
		"emissions": {"1,200"},
		"energy":    {"350"},
		"water":     {"20"},
		"diversity": {"45"},
	}, got)
}

// TestExtractEvidenceVietnamese tests Vietnamese units.
func TestExtractEvidenceVietnamese(t *testing.T) {
	got := ExtractEvidence("Giảm 500 tấn phát thải, tỷ lệ 38.5% nữ")
	assert.Equal(t, []string{"500"}, got["emissions"])
	assert.Equal(t, []string{"38.5"}, got["diversity"])
}

// TestExtractEvidenceLimits tests the per-category cap and empty results.
func TestExtractEvidenceLimits(t *testing.T) {
	got := ExtractEvidence(strings.Repeat("10 kWh ", 8))
	assert.Len(t, got["energy"], maxEvidencePerCategory)

	assert.Empty(t, ExtractEvidence("no numbers here"))
}

// TestInferIndustry tests industry detection from company names.
func TestInferIndustry(t *testing.T) {
	tests := []struct {
		name     string
		company  string
		industry string
		keywords int
	}{
		{"bank", "Vietcombank Ngân hàng TMCP", "finance", 4},
		{"software", "FPT Software", "technology", 4},
		{"energy", "PetroVietnam Oil Corporation", "energy", 5},
		{"pharma", "Hau Giang Pharmaceutical", "healthcare", 4},
		{"unknown", "Acme Holdings", DefaultIndustry, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			industry, keywords := InferIndustry(tt.company)
			assert.Equal(t, tt.industry, industry)
			assert.Len(t, keywords, tt.keywords)
		})
	}

	_, fallback := InferIndustry("")
	assert.Equal(t, []string{"general", "business"}, fallback)
}
