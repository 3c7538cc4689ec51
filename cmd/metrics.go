package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/core"
	"github.com/huangsam/greenscore/internal/contract"
)

// metricsCmd displays the active metric catalog.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display pillars, metrics, weights and rank thresholds",
	Long: `Show the metric catalog used for scoring.

Provides complete transparency into how reports are scored, including:
- Pillar weights
- Metric weights inside each pillar and which metrics are mandatory
- Rank thresholds and the missing-mandatory penalty
- Custom weights if configured via .greenscore.yaml

No evaluation is performed - this is purely informational.

Examples:
  # Show the default catalog
  greenscore metrics

  # View with custom weights from config file
  greenscore metrics --config .greenscore.yaml`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
