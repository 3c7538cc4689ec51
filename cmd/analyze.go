package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
)

// sentimentCmd runs keyword sentiment over text.
var sentimentCmd = &cobra.Command{
	Use:   "sentiment",
	Short: "Read keyword sentiment per ESG pillar from text.",
	Long: `Count positive and negative ESG keywords per pillar and label the overall tone.

Only the first --max-length characters are read. Each keyword counts once when present.

Examples:
  # Analyze a report
  greenscore sentiment --report annual-2024.pdf

  # Analyze inline text
  greenscore sentiment --text "Emissions fell 12% while renewable energy doubled."`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSentiment(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run sentiment analysis", err)
		}
	},
}

// benchmarkCmd compares pillar scores against an industry.
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Compare pillar scores with an industry benchmark.",
	Long: `Compare E, S and G scores with reference scores for an industry.

Each pillar gets a difference and a performance tier, plus a recommendation.
Unknown industries use the default profile.

Examples:
  # Inline scores
  greenscore benchmark --scores E:72,S:65,G:80 --industry technology

  # Scores aggregated from an evaluator file, industry inferred from the company
  greenscore benchmark --scores-file scores.json --company "Acme Banking"`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBenchmark(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run benchmark", err)
		}
	},
}

// riskCmd scans text for risk keywords.
var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Detect ESG risk keywords and low pillar scores.",
	Long: `Scan text for high, medium and low ESG risk keywords and compute a risk level.

Pillar scores given with --scores or --scores-file add a finding for every pillar below 40.
Those findings add priority actions but never change the risk score.

Examples:
  # Scan news text
  greenscore risk --text-file news.txt

  # Include pillar scores
  greenscore risk --report annual-2024.pdf --scores E:35,S:70,G:62`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRisk(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run risk detection", err)
		}
	},
}
