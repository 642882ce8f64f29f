package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/SweetsNSavories/timeline/internal/adapter"
	"github.com/SweetsNSavories/timeline/internal/config"
	"github.com/SweetsNSavories/timeline/internal/errors"
	"github.com/SweetsNSavories/timeline/internal/pipeline"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	registry *adapter.Registry
	cfg      *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reg *adapter.Registry, cfg *config.Config) *Handlers {
	return &Handlers{registry: reg, cfg: cfg}
}

// GetRecordsRequest represents the arguments for timeline_get_records.
type GetRecordsRequest struct {
	RecordID   string   `json:"record_id"`
	PageSize   int      `json:"page_size,omitempty"`
	Descending bool     `json:"descending,omitempty"`
	Cursor     string   `json:"cursor,omitempty"`
	Keyword    string   `json:"keyword,omitempty"`
	Selected   []string `json:"selected,omitempty"`
	RequestID  string   `json:"request_id,omitempty"`
}

// GetFiltersRequest represents the arguments for timeline_get_filters.
type GetFiltersRequest struct {
	RecordID string `json:"record_id"`
}

// GetDisplayRequest represents the arguments for timeline_get_display.
type GetDisplayRequest struct {
	RecordID string `json:"record_id"`
	ID       string `json:"id"`
}

// HandleGetRecords handles the timeline_get_records tool call.
func (h *Handlers) HandleGetRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRecordsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.RecordID == "" {
		return errorResult(errors.NewInvalidRequest("record_id is required")), nil
	}

	a := h.registry.Acquire(ctx, input.RecordID)

	pageReq := pipeline.PageRequest{
		PageSize:  input.PageSize,
		Ascending: !input.Descending,
		Cursor:    input.Cursor,
		RequestID: input.RequestID,
	}
	spec := a.FilterSpecFromSelection(ctx, input.Keyword, input.Selected)

	return successResult(a.GetRecordsData(ctx, pageReq, spec))
}

// HandleGetFilters handles the timeline_get_filters tool call.
func (h *Handlers) HandleGetFilters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetFiltersRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.RecordID == "" {
		return errorResult(errors.NewInvalidRequest("record_id is required")), nil
	}

	a := h.registry.Acquire(ctx, input.RecordID)
	return successResult(map[string]any{"facets": a.GetFilterDetails(ctx)})
}

// HandleGetDisplay handles the timeline_get_display tool call.
func (h *Handlers) HandleGetDisplay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetDisplayRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.RecordID == "" || input.ID == "" {
		return errorResult(errors.NewInvalidRequest("record_id and id are required")), nil
	}

	a := h.registry.Acquire(ctx, input.RecordID)
	rec, ok := a.RecordByID(ctx, input.ID)
	if !ok {
		return errorResult(&errors.TimelineError{
			Code:    errors.ErrContextNotFound,
			Status:  404,
			Message: "record not found in current snapshot: " + input.ID,
		}), nil
	}

	return successResult(a.GetRecordUX(rec))
}

// errorResult creates an MCP error result from any error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tErr, ok := err.(*errors.TimelineError); ok {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
			"status":  tErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
