package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/docchat/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document upload and question tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, client, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer client.Close()

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docchat MCP server started on stdio (backend=%s)\n", client.BaseURL())

		srv := mcpserver.NewServer(client, log)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
