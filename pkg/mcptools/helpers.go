// Package mcptools exposes the validator as MCP tools, so assistants editing a
// DDD project can validate it and inspect the node catalog.
//
// Each tool follows the same shape:
//   - a struct holding its dependencies, built by a constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
package mcptools

import (
	"fmt"
	"strings"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}

	return int(v)
}

func writeFindings(sb *strings.Builder, title string, findings []models.Finding, limit int) {
	if len(findings) == 0 {
		return
	}

	fmt.Fprintf(sb, "\n### %s (%d)\n\n", title, len(findings))

	for i, f := range findings {
		if limit > 0 && i == limit {
			fmt.Fprintf(sb, "- ... and %d more\n", len(findings)-limit)

			break
		}

		fmt.Fprintf(sb, "- %s\n", f.String())
	}
}
