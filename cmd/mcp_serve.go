package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/chris-regnier/devjournal/internal/mcptools"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve",
	Short: "Run MCP server on stdio",
	Long: `Starts a Model Context Protocol (MCP) server that exposes the journal
over stdio transport, so assistants can record and search entries.

Available tools:
  - journal_add, journal_auto_capture: record entries
  - journal_search: free-text search (keywords, "phrases", #tags, id:N, time phrases)
  - journal_time_query: entries within a time expression
  - journal_list_recent, journal_list_projects, journal_stats
  - journal_delete, journal_delete_by_project
  - journal_import, journal_export

Example client config:
  {
    "mcpServers": {
      "devjournal": {
        "command": "/path/to/devjournal",
        "args": ["mcp-serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	server := mcptools.CreateMCPServer(store, appConfig, appLog)

	// Logs go to stderr; stdout is reserved for the MCP protocol
	appLog.Info().
		Str("storage", appConfig.Storage).
		Str("data_dir", appConfig.DataDir).
		Msg("starting MCP server (stdio transport)")

	// Blocks until the client closes the transport
	return server.Run(cmd.Context(), &mcp.StdioTransport{})
}
