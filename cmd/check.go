package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/core"
)

// checkCmd gates CI/CD pipelines on the evaluation result.
var checkCmd = &cobra.Command{
	Use:   "check [scores-file]",
	Short: "Fail when an evaluation falls below a minimum rank or score.",
	Long: `Evaluate a single input and exit with a non-zero code when the result does not meet the gates.

Gates:
- --min-rank: the rank must be at least this rank (default BRONZE)
- --min-score: the total score must be at least this value (0 disables)

Examples:
  # Require SILVER from an evaluator output
  greenscore check scores.json --min-rank silver

  # Require a total of 60 from a report
  greenscore check --report annual-2024.pdf --company Acme --min-score 60`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteCheck(rootCtx, cfg, cacheManager)
	},
}
