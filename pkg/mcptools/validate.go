package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/ddd-validator/pkg/loader/file"
	"github.com/dukex/ddd-validator/pkg/report"
	"github.com/dukex/ddd-validator/pkg/services"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultMaxFindings = 50

// ValidateTool handles the ddd_validate_project MCP tool.
type ValidateTool struct {
	validation *services.Validation
	logger     *slog.Logger
}

// NewValidateTool creates a ValidateTool backed by the given validation service.
func NewValidateTool(validation *services.Validation, logger *slog.Logger) *ValidateTool {
	return &ValidateTool{validation: validation, logger: logger}
}

// Definition returns the MCP tool definition for ddd_validate_project.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("ddd_validate_project",
		mcp.WithDescription(
			"Validate every flow of a DDD project directory and report structural errors, "+
				"dangling references, node-type coverage and the spec quality score.",
		),
		mcp.WithString("project_dir",
			mcp.Required(),
			mcp.Description("Root of the DDD project (the directory holding specs/)"),
		),
		mcp.WithNumber("max_findings",
			mcp.Description("Maximum findings listed per severity (default: 50, 0 for all)"),
		),
		mcp.WithBoolean("include_yaml",
			mcp.Description("Append both reports as YAML (default: false)"),
		),
	)
}

// Handle processes the ddd_validate_project tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("project_dir", "")
	if dir == "" {
		return mcp.NewToolResultError("'project_dir' is required"), nil
	}

	limit := intArg(req, "max_findings", defaultMaxFindings)

	l := file.NewLoader(t.logger, dir)
	defer func() {
		_ = l.Close(ctx)
	}()

	result, err := t.validation.ValidateLoaded(ctx, l)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to validate project: %v", err)), nil
	}

	quality := result.Quality
	compat := result.Compatibility

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Validation of %s\n\n", result.Project)
	fmt.Fprintf(&sb, "- **Score**: %d%% (%s)\n", quality.ScorePct, quality.QualityLabel)
	fmt.Fprintf(&sb, "- **Errors**: %d\n", quality.ErrorCount)
	fmt.Fprintf(&sb, "- **Warnings**: %d\n", quality.WarningCount)
	fmt.Fprintf(&sb, "- **Node types**: %s (%d%%)\n", quality.NodeTypeCoverage, quality.NodeCoveragePct)
	fmt.Fprintf(&sb, "- **Trigger kinds**: %s (%d%%)\n", quality.TriggerTypeCoverage, quality.TriggerCoveragePct)
	fmt.Fprintf(&sb, "- **Files**: %d parsed, %d failed\n", compat.ParsedOK, compat.ParsedFailed)
	fmt.Fprintf(&sb, "- **Compatibility**: %s\n", compat.Compatibility)

	writeFindings(&sb, "Errors", quality.Errors, limit)
	writeFindings(&sb, "Warnings", quality.Warnings, limit)

	if req.GetBool("include_yaml", false) {
		for _, r := range []struct {
			name   string
			report any
		}{
			{report.CompatibilityFile, compat},
			{report.QualityFile, quality},
		} {
			data, err := report.Marshal(r.report, report.FormatYAML)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to encode %s: %v", r.name, err)), nil
			}

			fmt.Fprintf(&sb, "\n### %s\n\n```yaml\n%s```\n", r.name, data)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}
