package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/core"
)

// evaluateCmd runs the full ESG evaluation pipeline.
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [scores-file...]",
	Short: "Score a company report on E, S and G pillars and assign a rank.",
	Long: `Run the full evaluation pipeline and print an auditable ESG report.

Metric scores come from one of two places:
- An evaluator JSON file (--scores-file or positional arguments)
- An OpenAI-compatible model reading the report given with --report

The pipeline then:
- Aggregates metric scores into pillar scores, a total and a rank
- Halves a pillar and blocks GOLD when a mandatory metric is missing
- Reads keyword sentiment and risk signals from the report and news text
- Compares pillar scores with the industry benchmark
- Extracts quantitative evidence (emissions, energy, water, diversity)
- Records the evaluation in the history store when one is configured

Several scores files produce a ranked leaderboard instead of a single report.

Examples:
  # Evaluate a PDF report with the default model list
  GREENSCORE_LLM_API_KEY=... greenscore evaluate --report annual-2024.pdf --company "Acme Energy"

  # Add controversy news from a SearXNG instance
  greenscore evaluate --report annual-2024.pdf --company Acme --news --search-url http://localhost:8888

  # Aggregate an existing evaluator output without calling a model
  greenscore evaluate --scores-file scores.json --industry energy --output json

  # Rank several companies
  greenscore evaluate scores/*.json --limit 10 --output csv`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteEvaluate(rootCtx, cfg, cacheManager)
	},
}
