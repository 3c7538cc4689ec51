package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/greenscore/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the GreenScore MCP server",
	Long:  `Launch an MCP server over stdio that allows AI agents to score, benchmark and scan ESG data via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep logs off the console since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args, false)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
