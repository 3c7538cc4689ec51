package schema

// Custom string types for type safety.
type (
	// PillarCode identifies one of the three ESG pillars.
	PillarCode string

	// Rank is the discrete tier awarded from the total score.
	Rank string

	// SentimentLabel is the polarity label of a sentiment value.
	SentimentLabel string

	// PerformanceTier classifies a pillar against its industry benchmark.
	PerformanceTier string

	// RiskLevel is the overall level of a risk report.
	RiskLevel string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All pillars, in canonical order.
const (
	Environmental PillarCode = "E"
	Social        PillarCode = "S"
	Governance    PillarCode = "G"
)

// All ranks supported.
const (
	RankGold     Rank = "GOLD"
	RankSilver   Rank = "SILVER"
	RankBronze   Rank = "BRONZE"
	RankUnranked Rank = "UNRANKED"
)

// All sentiment labels supported.
const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// All performance tiers supported.
const (
	TierOutstanding      PerformanceTier = "Outstanding"
	TierGood             PerformanceTier = "Good"
	TierNeedsImprovement PerformanceTier = "NeedsImprovement"
	TierWeak             PerformanceTier = "Weak"
)

// All risk levels supported.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	YAMLOut    OutputMode = "yaml"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Rank thresholds on the total score. GOLD additionally requires every mandatory metric.
const (
	GoldThreshold   = 80.0
	SilverThreshold = 55.0
	BronzeThreshold = 35.0
)

// MandatoryPenalty multiplies a pillar score when one of its mandatory metrics is missing.
const MandatoryPenalty = 0.5

// AllPillars lists the pillars in canonical order.
var AllPillars = []PillarCode{Environmental, Social, Governance}

// Name returns the display name of the pillar, or its code when unknown.
func (p PillarCode) Name() string {
	switch p {
	case Environmental:
		return "Environmental"
	case Social:
		return "Social"
	case Governance:
		return "Governance"
	default:
		return string(p)
	}
}

// AllRanks lists ranks from best to worst.
var AllRanks = []Rank{RankGold, RankSilver, RankBronze, RankUnranked}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	YAMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidRanks lists all valid ranks.
var ValidRanks = map[Rank]struct{}{
	RankGold:     {},
	RankSilver:   {},
	RankBronze:   {},
	RankUnranked: {},
}

// RankOrder returns the position of a rank where lower is better. Unknown ranks sort last.
func RankOrder(r Rank) int {
	for i, known := range AllRanks {
		if known == r {
			return i
		}
	}
	return len(AllRanks)
}

// AtLeast reports whether r is as good as or better than min.
func (r Rank) AtLeast(minRank Rank) bool {
	return RankOrder(r) <= RankOrder(minRank)
}

// Badge returns the badge identifier awarded for the rank.
func (r Rank) Badge() string {
	return "GREENSCORE_" + string(r)
}
