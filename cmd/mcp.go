package cmd

import (
	"github.com/huangsam/vmfs/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the VMFS MCP server",
	Long: `Serve the ranking, comparison, detail and what-if operations as MCP tools over stdio.
Stdout belongs to the protocol, so the server prints nothing else there.`,
	Example: `  # Register with an MCP client
  {"mcpServers": {"vmfs": {"command": "vmfs", "args": ["mcp"]}}}`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
