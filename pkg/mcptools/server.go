package mcptools

import (
	"log/slog"

	"github.com/dukex/ddd-validator/pkg/services"
	"github.com/mark3labs/mcp-go/server"
)

const serverName = "ddd-validator"

// NewServer builds an MCP server exposing the validation tools.
func NewServer(version string, validation *services.Validation, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(
			"Use ddd_validate_project after editing flow files to check wiring, references and the quality score. "+
				"Use ddd_node_catalog to see which ports a node type must wire.",
		),
	)

	validateTool := NewValidateTool(validation, logger)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	catalogTool := NewCatalogTool(validation.Catalog())
	s.AddTool(catalogTool.Definition(), catalogTool.Handle)

	return s
}
