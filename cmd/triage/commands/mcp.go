// ABOUTME: MCP command starts the Model Context Protocol server over stdio
// ABOUTME: Enables LLM agents to drive the triage case lifecycle as tools
package commands

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ruralcare/triage-engine/internal/config"
	"github.com/ruralcare/triage-engine/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the triage engine as an MCP (Model Context Protocol) server over
stdio, exposing start_case, submit_answer, finalize_case, and
list_clusters as tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  triage mcp`,
	}
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pipeline, cat, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Triage Engine",
		"0.1.0",
	)
	mcp.RegisterTools(server, pipeline, cat)

	if !quiet {
		log.Println("Triage MCP server starting on stdio...")
	}
	return mcpserver.ServeStdio(server)
}
