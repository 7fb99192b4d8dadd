package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/timerdiv/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can solve
timer configurations.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, e.g. for the MCP Inspector.

Tools:      solve_profile, solve_space, list_profiles, explain
Resources:  timerdiv://profiles, timerdiv://profiles/{name}, timerdiv://digits

Examples:
  timerdiv mcp serve
  timerdiv mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Solver:  solverService,
		Profile: profileService,
		Display: displayService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.Printf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
