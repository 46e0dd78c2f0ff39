// Package report turns validation results and coverage into the tool
// compatibility and spec quality reports. Output is a pure function of its
// input: no timestamps, fixed field order and sorted lists.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dukex/ddd-validator/pkg/models"
	"gopkg.in/yaml.v3"
)

// Report file names written by WriteFiles.
const (
	CompatibilityFile = "tool-compatibility-report.yaml"
	QualityFile       = "spec-quality-report.yaml"
)

// Format is a serialization of a report.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("report: unknown format")

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "yaml", "yml", "":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Compatibility summarizes a run's parse stats. A project is fully compatible
// when nothing failed and at least one flow made it through normalization.
func Compatibility(stats models.ParseStats, cov models.CoverageReport) models.ToolCompatibilityReport {
	return models.ToolCompatibilityReport{
		TotalFiles:       stats.TotalFiles,
		ParsedOK:         stats.ParsedOK,
		ParsedFailed:     stats.ParsedFailed,
		NormalizedOK:     stats.NormalizedOK,
		NormalizedFailed: stats.NormalizedFailed,
		NodeTypeCoverage: cov.NodeTypeCoverage(),
		Compatibility:    compatibility(stats),
	}
}

func compatibility(stats models.ParseStats) models.Compatibility {
	switch {
	case stats.NormalizedOK == 0:
		return models.CompatibilityNone
	case stats.ParsedFailed == 0 && stats.NormalizedFailed == 0:
		return models.CompatibilityFull
	default:
		return models.CompatibilityPartial
	}
}

// Quality builds the spec quality report. Finding lists are copied and sorted.
func Quality(result models.ValidationResult, cov models.CoverageReport, label models.QualityLabel) models.SpecQualityReport {
	errs := sortedCopy(result.Errors)
	warnings := sortedCopy(result.Warnings)

	missing := slices.Clone(cov.NodeTypesMissing)
	if missing == nil {
		missing = []models.NodeType{}
	}

	slices.Sort(missing)

	return models.SpecQualityReport{
		ScorePct:            cov.ScorePct,
		QualityLabel:        label,
		ErrorCount:          len(errs),
		WarningCount:        len(warnings),
		NodeTypeCoverage:    cov.NodeTypeCoverage(),
		NodeCoveragePct:     cov.NodeCoveragePct,
		TriggerTypeCoverage: cov.TriggerTypeCoverage(),
		TriggerCoveragePct:  cov.TriggerCoveragePct,
		NodeTypesMissing:    missing,
		Errors:              errs,
		Warnings:            warnings,
	}
}

func sortedCopy(findings []models.Finding) []models.Finding {
	out := make([]models.Finding, len(findings))
	copy(out, findings)
	models.SortFindings(out)

	return out
}

// Marshal serializes a report in the given format.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}

		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}

		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFiles writes both reports as YAML into dir, creating it if needed.
func WriteFiles(dir string, compat models.ToolCompatibilityReport, quality models.SpecQualityReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	files := []struct {
		name   string
		report any
	}{
		{CompatibilityFile, compat},
		{QualityFile, quality},
	}

	for _, f := range files {
		data, err := Marshal(f.report, FormatYAML)
		if err != nil {
			return err
		}

		if err := os.WriteFile(filepath.Join(dir, f.name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}

	return nil
}
