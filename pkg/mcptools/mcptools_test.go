package mcptools

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/services"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderFlow = `
flow: {id: create-order, domain: orders}
nodes:
  - id: t1
    type: trigger
    spec: {kind: http}
    connections: [{targetNodeId: check}]
  - id: check
    type: decision
    spec: {condition: "stock > 0"}
    connections: [{targetNodeId: end, sourceHandle: "true"}]
  - id: end
    type: terminal
`

func newTestValidation(t *testing.T) *services.Validation {
	t.Helper()

	validation, err := services.NewValidation(catalog.MustDefault())
	require.NoError(t, err)

	return validation
}

func setupProject(t *testing.T) string {
	t.Helper()

	root := filepath.Join(t.TempDir(), "shop")
	path := filepath.Join(root, "specs/domains/orders/flows/create-order.yaml")

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(orderFlow), 0o644))

	return root
}

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}

	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}

	return ""
}

func TestValidateTool_Definition(t *testing.T) {
	def := NewValidateTool(newTestValidation(t), slog.Default()).Definition()

	assert.Equal(t, "ddd_validate_project", def.Name)
	assert.Contains(t, def.InputSchema.Properties, "project_dir")
	assert.Contains(t, def.InputSchema.Properties, "max_findings")
	assert.Equal(t, []string{"project_dir"}, def.InputSchema.Required)
}

func TestValidateTool_Handle(t *testing.T) {
	tool := NewValidateTool(newTestValidation(t), slog.Default())
	root := setupProject(t)

	result, err := tool.Handle(t.Context(), makeReq(map[string]any{"project_dir": root}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(result))

	text := resultText(result)
	assert.Contains(t, text, "## Validation of shop")
	assert.Contains(t, text, "**Score**: 98% (EXCELLENT)")
	assert.Contains(t, text, "**Errors**: 1")
	assert.Contains(t, text, "UnwiredPort create-order/check:")
	assert.Contains(t, text, "**Compatibility**: FULLY_COMPATIBLE")
	assert.NotContains(t, text, "```yaml")
}

func TestValidateTool_Handle_IncludeYAML(t *testing.T) {
	tool := NewValidateTool(newTestValidation(t), slog.Default())

	result, err := tool.Handle(t.Context(), makeReq(map[string]any{
		"project_dir":  setupProject(t),
		"include_yaml": true,
	}))
	require.NoError(t, err)

	text := resultText(result)
	assert.Contains(t, text, "### tool-compatibility.yaml")
	assert.Contains(t, text, "### spec-quality.yaml")
	assert.Contains(t, text, "scorePct: 98")
}

func TestValidateTool_Handle_MaxFindings(t *testing.T) {
	tool := NewValidateTool(newTestValidation(t), slog.Default())
	root := setupProject(t)

	extra := "flow: {id: lonely}\nnodes: [{id: a, type: process, spec: {action: x}}, {id: b, type: process, spec: {action: y}}]\n"
	path := filepath.Join(root, "specs/domains/orders/flows/lonely.yaml")
	require.NoError(t, os.WriteFile(path, []byte(extra), 0o644))

	result, err := tool.Handle(t.Context(), makeReq(map[string]any{
		"project_dir":  root,
		"max_findings": float64(1),
	}))
	require.NoError(t, err)

	assert.Contains(t, resultText(result), "... and 3 more")
}

func TestValidateTool_Handle_Errors(t *testing.T) {
	tool := NewValidateTool(newTestValidation(t), slog.Default())

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{name: "missing project_dir", args: map[string]any{}, want: "'project_dir' is required"},
		{
			name: "missing directory",
			args: map[string]any{"project_dir": filepath.Join(t.TempDir(), "nope")},
			want: "failed to validate project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tool.Handle(t.Context(), makeReq(tt.args))
			require.NoError(t, err)

			assert.True(t, result.IsError)
			assert.Contains(t, resultText(result), tt.want)
		})
	}
}

func TestCatalogTool_Handle(t *testing.T) {
	tool := NewCatalogTool(catalog.MustDefault())

	assert.Equal(t, "ddd_node_catalog", tool.Definition().Name)

	result, err := tool.Handle(t.Context(), makeReq(nil))
	require.NoError(t, err)

	text := resultText(result)
	assert.Contains(t, text, "## Node types (28)")
	assert.Contains(t, text, "- **decision**: ports true, false")
	assert.Contains(t, text, "- **terminal**: ports none")
	assert.Contains(t, text, "## Trigger kinds")
}

func TestCatalogTool_Handle_SingleType(t *testing.T) {
	tool := NewCatalogTool(catalog.MustDefault())

	result, err := tool.Handle(t.Context(), makeReq(map[string]any{"type": "smart_router"}))
	require.NoError(t, err)

	text := resultText(result)
	assert.Contains(t, text, "## Node types (1)")
	assert.Contains(t, text, "(plus ports declared in the node spec)")

	result, err = tool.Handle(t.Context(), makeReq(map[string]any{"type": "teleport"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestNewServer(t *testing.T) {
	s := NewServer("test", newTestValidation(t), slog.Default())

	assert.NotNil(t, s)
}
