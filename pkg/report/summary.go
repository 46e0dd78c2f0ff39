package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dukex/ddd-validator/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E5C07B"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

var labelColors = map[models.QualityLabel]lipgloss.Color{
	models.QualityExcellent: lipgloss.Color("#98C379"),
	models.QualityGood:      lipgloss.Color("#5B8DEF"),
	models.QualityFair:      lipgloss.Color("#E5C07B"),
	models.QualityPoor:      lipgloss.Color("#FF6B6B"),
}

// Summary renders both reports for a terminal. maxFindings caps how many
// findings of each severity are listed; zero lists none.
func Summary(compat models.ToolCompatibilityReport, quality models.SpecQualityReport, maxFindings int) string {
	label := lipgloss.NewStyle().Bold(true).Foreground(labelColors[quality.QualityLabel])

	lines := []string{
		titleStyle.Render("Spec quality"),
		row("score", fmt.Sprintf("%d%% %s", quality.ScorePct, label.Render(string(quality.QualityLabel)))),
		row("errors", errorStyle.Render(fmt.Sprint(quality.ErrorCount))),
		row("warnings", warningStyle.Render(fmt.Sprint(quality.WarningCount))),
		row("node types", fmt.Sprintf("%s (%d%%)", quality.NodeTypeCoverage, quality.NodeCoveragePct)),
		row("trigger kinds", fmt.Sprintf("%s (%d%%)", quality.TriggerTypeCoverage, quality.TriggerCoveragePct)),
		"",
		titleStyle.Render("Tool compatibility"),
		row("files", fmt.Sprintf("%d (%d parsed, %d failed)", compat.TotalFiles, compat.ParsedOK, compat.ParsedFailed)),
		row("flows", fmt.Sprintf("%d normalized, %d failed", compat.NormalizedOK, compat.NormalizedFailed)),
		row("status", string(compat.Compatibility)),
	}

	lines = append(lines, findingLines(quality.Errors, errorStyle, maxFindings)...)
	lines = append(lines, findingLines(quality.Warnings, warningStyle, maxFindings)...)

	return boxStyle.Render(strings.Join(lines, "\n"))
}

func row(key, value string) string {
	return keyStyle.Render(fmt.Sprintf("%-14s", key)) + value
}

func findingLines(findings []models.Finding, style lipgloss.Style, limit int) []string {
	if len(findings) == 0 || limit <= 0 {
		return nil
	}

	lines := []string{""}

	for i, f := range findings {
		if i == limit {
			lines = append(lines, keyStyle.Render(fmt.Sprintf("... %d more", len(findings)-limit)))

			break
		}

		lines = append(lines, style.Render(string(f.Code))+" "+keyStyle.Render(f.Location())+" "+f.Message)
	}

	return lines
}
