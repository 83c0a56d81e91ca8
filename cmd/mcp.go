package cmd

import (
	"github.com/riskgate/riskgate/internal/mcp"

	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Riskgate MCP server",
	Long: `Launch an MCP server that allows AI agents to query the saved risk state
via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Setup must not log to stdout, which carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
