package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/SweetsNSavories/timeline/internal/adapter"
	"github.com/SweetsNSavories/timeline/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"timeline_get_records": {
		def:     getRecordsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetRecords },
	},
	"timeline_get_filters": {
		def:     getFiltersToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetFilters },
	},
	"timeline_get_display": {
		def:     getDisplayToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetDisplay },
	},
}

var getRecordsToolDef = mcp.NewTool("timeline_get_records",
	mcp.WithDescription("Get one page of timeline records for a host record, filtered by keyword and facet selection, sorted by date, paginated by cursor."),
	mcp.WithString("record_id", mcp.Required(), mcp.Description("Host record identifier the timeline is attached to")),
	mcp.WithNumber("page_size", mcp.Description("Records per page (bounded by server config)")),
	mcp.WithBoolean("descending", mcp.Description("Sort newest first (default oldest first)")),
	mcp.WithString("cursor", mcp.Description("Id of the last-seen record; the page starts after it")),
	mcp.WithString("keyword", mcp.Description("Free-text search keyword")),
	mcp.WithArray("selected", mcp.Description("Selected facet values (global across groups)")),
	mcp.WithString("request_id", mcp.Description("Opaque token echoed back in the result")),
)

var getFiltersToolDef = mcp.NewTool("timeline_get_filters",
	mcp.WithDescription("Describe the available facet groups and their options for a host record's timeline."),
	mcp.WithString("record_id", mcp.Required(), mcp.Description("Host record identifier the timeline is attached to")),
)

var getDisplayToolDef = mcp.NewTool("timeline_get_display",
	mcp.WithDescription("Get the display shape of one timeline record from the current snapshot."),
	mcp.WithString("record_id", mcp.Required(), mcp.Description("Host record identifier the timeline is attached to")),
	mcp.WithString("id", mcp.Required(), mcp.Description("Timeline record id")),
)

// NewServer creates a new MCP server with timeline tools registered.
func NewServer(reg *adapter.Registry, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"timeline",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(reg, cfg)

	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(reg *adapter.Registry, cfg *config.Config, version string) error {
	s := NewServer(reg, cfg, version)
	return server.ServeStdio(s)
}
