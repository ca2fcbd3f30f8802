// ABOUTME: MCP tool definitions and registration for the triage server
// ABOUTME: Exposes the case lifecycle and catalog inspection as 4 MCP tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/core"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, pipeline *core.Pipeline, cat *catalog.Catalog) *Handlers {
	handlers := &Handlers{
		pipeline: pipeline,
		catalog:  cat,
	}

	// 1. start_case - Open a triage case from an initial description
	server.AddTool(mcp.Tool{
		Name:        "start_case",
		Description: "Start a triage case from a patient description. Returns a case id and the first clarifying question if one is needed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Initial patient description from the health worker",
				},
				"age": map[string]interface{}{
					"type":        "number",
					"description": "Patient age in years (default: 30)",
				},
				"spo2": map[string]interface{}{
					"type":        "number",
					"description": "Oxygen saturation percentage (default: 98)",
				},
				"pulse": map[string]interface{}{
					"type":        "number",
					"description": "Pulse rate in beats per minute (default: 80)",
				},
				"bp_sys": map[string]interface{}{
					"type":        "number",
					"description": "Systolic blood pressure (default: 120)",
				},
				"bp_dia": map[string]interface{}{
					"type":        "number",
					"description": "Diastolic blood pressure (default: 80)",
				},
			},
			Required: []string{"text"},
		},
	}, handlers.StartCase)

	// 2. submit_answer - Answer the pending clarifying question
	server.AddTool(mcp.Tool{
		Name:        "submit_answer",
		Description: "Submit the health worker's answer to the pending clarifying question. Invalid answers are rejected with a reason and the question stands.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"case_id": map[string]interface{}{
					"type":        "string",
					"description": "Case id returned by start_case",
				},
				"answer": map[string]interface{}{
					"type":        "string",
					"description": "Answer to the pending question",
				},
			},
			Required: []string{"case_id", "answer"},
		},
	}, handlers.SubmitAnswer)

	// 3. finalize_case - Route the case and produce the care plan
	server.AddTool(mcp.Tool{
		Name:        "finalize_case",
		Description: "Finalize a case: extract symptoms, assess complexity, and route to the matching care plan. Closes the case.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"case_id": map[string]interface{}{
					"type":        "string",
					"description": "Case id returned by start_case",
				},
			},
			Required: []string{"case_id"},
		},
	}, handlers.FinalizeCase)

	// 4. list_clusters - Inspect the symptom cluster catalog
	server.AddTool(mcp.Tool{
		Name:        "list_clusters",
		Description: "List the configured symptom clusters with their keywords, priorities, and clarifying questions.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListClusters)

	return handlers
}
