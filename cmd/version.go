package cmd

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/internal/contract"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of greenscore.",
	Long: `Display version information including build details.

Shows:
- Release version
- Git commit hash
- Build timestamp
- Go runtime version
- Default evaluator endpoint and model fallback order

Include this output when reporting scoring differences between installs.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("greenscore CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  LLM:     %s (%s)\n", contract.DefaultLLMBaseURL, strings.Join(contract.DefaultLLMModels, ", "))
	},
}
