package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// CatalogTool handles the ddd_node_catalog MCP tool.
type CatalogTool struct {
	catalog *catalog.Catalog
}

func NewCatalogTool(cat *catalog.Catalog) *CatalogTool {
	return &CatalogTool{catalog: cat}
}

// Definition returns the MCP tool definition for ddd_node_catalog.
func (t *CatalogTool) Definition() mcp.Tool {
	return mcp.NewTool("ddd_node_catalog",
		mcp.WithDescription(
			"List the node types a flow may use with the output ports each must wire, "+
				"plus the known trigger kinds.",
		),
		mcp.WithString("type",
			mcp.Description("Only describe this node type (e.g. decision)"),
		),
	)
}

// Handle processes the ddd_node_catalog tool call.
func (t *CatalogTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := t.catalog.Entries()

	if name := req.GetString("type", ""); name != "" {
		entry, ok := t.catalog.Entry(models.NodeType(name))
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown node type %q", name)), nil
		}

		entries = []catalog.Entry{entry}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Node types (%d)\n\n", len(entries))

	for _, e := range entries {
		ports := "none"
		if len(e.Ports) > 0 {
			ports = strings.Join(e.Ports, ", ")
		}

		fmt.Fprintf(&sb, "- **%s**: ports %s", e.Type, ports)

		if e.Dynamic {
			sb.WriteString(" (plus ports declared in the node spec)")
		}

		if e.Description != "" {
			sb.WriteString(" - " + e.Description)
		}

		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n## Trigger kinds\n\n%s\n", strings.Join(t.catalog.TriggerKinds(), ", "))

	return mcp.NewToolResultText(sb.String()), nil
}
