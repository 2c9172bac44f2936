package main

import (
	"context"
	"fmt"

	"github.com/kestrelcode/platok/internal/mcpserver"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP (Model Context Protocol) server for LLM tool integration",
	Long: `Starts an MCP server over stdio transport that exposes the detector
as tools LLMs can invoke, so an assistant can submit files and ask for
plagiarism clusters without shelling out to the CLI.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "platok": {
        "command": "platok",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - add_submission      Add a source file as a submission
  - detect_plagiarism    Cluster submissions added so far`,
	RunE: runMCP,
}

var mcpManifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Output MCP server manifest (server.json) for registry publishing",
	RunE:  runMCPManifest,
}

func init() {
	mcpCmd.AddCommand(mcpManifestCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}

func runMCPManifest(cmd *cobra.Command, args []string) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
