// ABOUTME: MCP tool handler implementations for the triage server
// ABOUTME: Thin argument parsing over the pipeline with proper error handling
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ruralcare/triage-engine/internal/catalog"
	"github.com/ruralcare/triage-engine/internal/core"
	"github.com/ruralcare/triage-engine/internal/models"
	"github.com/ruralcare/triage-engine/internal/session"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	pipeline *core.Pipeline
	catalog  *catalog.Catalog
}

// StartCase handles the start_case tool
func (h *Handlers) StartCase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	vitals := models.Vitals{
		Age:   request.GetInt("age", models.DefaultAge),
		SpO2:  request.GetInt("spo2", models.DefaultSpO2),
		Pulse: request.GetInt("pulse", models.DefaultPulse),
		BPSys: request.GetInt("bp_sys", models.DefaultBPSys),
		BPDia: request.GetInt("bp_dia", models.DefaultBPDia),
	}

	resp, err := h.pipeline.Start(text, vitals)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start case: %v", err)), nil
	}
	return jsonResult(resp)
}

// SubmitAnswer handles the submit_answer tool
func (h *Handlers) SubmitAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caseID, err := request.RequireString("case_id")
	if err != nil {
		return mcp.NewToolResultError("case_id argument is required and must be a string"), nil
	}
	answer, err := request.RequireString("answer")
	if err != nil {
		return mcp.NewToolResultError("answer argument is required and must be a string"), nil
	}

	resp, err := h.pipeline.SubmitAnswer(caseID, answer)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("case %s not found", caseID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to process answer: %v", err)), nil
	}
	return jsonResult(resp)
}

// FinalizeCase handles the finalize_case tool
func (h *Handlers) FinalizeCase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	caseID, err := request.RequireString("case_id")
	if err != nil {
		return mcp.NewToolResultError("case_id argument is required and must be a string"), nil
	}

	result, err := h.pipeline.Finalize(caseID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("case %s not found", caseID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to finalize case: %v", err)), nil
	}
	return jsonResult(result)
}

// ListClusters handles the list_clusters tool
func (h *Handlers) ListClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]interface{}{
		"clusters": h.catalog.Clusters,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
