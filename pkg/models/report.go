package models

import "strconv"

// Compatibility summarizes how much of a project the tooling could read.
type Compatibility string

const (
	CompatibilityFull    Compatibility = "FULLY_COMPATIBLE"
	CompatibilityPartial Compatibility = "PARTIALLY_COMPATIBLE"
	CompatibilityNone    Compatibility = "INCOMPATIBLE"
)

// QualityLabel is the threshold bucket of a quality score.
type QualityLabel string

const (
	QualityExcellent QualityLabel = "EXCELLENT"
	QualityGood      QualityLabel = "GOOD"
	QualityFair      QualityLabel = "FAIR"
	QualityPoor      QualityLabel = "POOR"
)

// CoverageReport aggregates catalog usage over a set of flows.
type CoverageReport struct {
	NodeTypesObserved    []NodeType `json:"nodeTypesObserved"    yaml:"nodeTypesObserved"`
	NodeTypesMissing     []NodeType `json:"nodeTypesMissing"     yaml:"nodeTypesMissing"`
	NodeTypeCatalogSize  int        `json:"nodeTypeCatalogSize"  yaml:"nodeTypeCatalogSize"`
	NodeCoveragePct      int        `json:"nodeCoveragePct"      yaml:"nodeCoveragePct"`
	TriggerTypesObserved []string   `json:"triggerTypesObserved" yaml:"triggerTypesObserved"`
	TriggerCatalogSize   int        `json:"triggerCatalogSize"   yaml:"triggerCatalogSize"`
	TriggerCoveragePct   int        `json:"triggerCoveragePct"   yaml:"triggerCoveragePct"`
	ScorePct             int        `json:"scorePct"             yaml:"scorePct"`
}

// NodeTypeCoverage renders node coverage as "{observed}/{total}".
func (c CoverageReport) NodeTypeCoverage() string {
	return ratio(len(c.NodeTypesObserved), c.NodeTypeCatalogSize)
}

// TriggerTypeCoverage renders trigger coverage as "{observed}/{total}".
func (c CoverageReport) TriggerTypeCoverage() string {
	return ratio(len(c.TriggerTypesObserved), c.TriggerCatalogSize)
}

// ParseStats counts how many flow files made it through each stage.
type ParseStats struct {
	TotalFiles       int
	ParsedOK         int
	ParsedFailed     int
	NormalizedOK     int
	NormalizedFailed int
}

// ToolCompatibilityReport is the parse/normalize summary of a project.
type ToolCompatibilityReport struct {
	TotalFiles       int           `json:"totalFiles"       yaml:"totalFiles"`
	ParsedOK         int           `json:"parsedOk"         yaml:"parsedOk"`
	ParsedFailed     int           `json:"parsedFailed"     yaml:"parsedFailed"`
	NormalizedOK     int           `json:"normalizedOk"     yaml:"normalizedOk"`
	NormalizedFailed int           `json:"normalizedFailed" yaml:"normalizedFailed"`
	NodeTypeCoverage string        `json:"nodeTypeCoverage" yaml:"nodeTypeCoverage"`
	Compatibility    Compatibility `json:"compatibility"    yaml:"compatibility"`
}

// SpecQualityReport is the findings and score summary of a project.
type SpecQualityReport struct {
	ScorePct            int          `json:"scorePct"            yaml:"scorePct"`
	QualityLabel        QualityLabel `json:"qualityLabel"        yaml:"qualityLabel"`
	ErrorCount          int          `json:"errorCount"          yaml:"errorCount"`
	WarningCount        int          `json:"warningCount"        yaml:"warningCount"`
	NodeTypeCoverage    string       `json:"nodeTypeCoverage"    yaml:"nodeTypeCoverage"`
	NodeCoveragePct     int          `json:"nodeCoveragePct"     yaml:"nodeCoveragePct"`
	TriggerTypeCoverage string       `json:"triggerTypeCoverage" yaml:"triggerTypeCoverage"`
	TriggerCoveragePct  int          `json:"triggerCoveragePct"  yaml:"triggerCoveragePct"`
	NodeTypesMissing    []NodeType   `json:"nodeTypesMissing"    yaml:"nodeTypesMissing"`
	Errors              []Finding    `json:"errors"              yaml:"errors"`
	Warnings            []Finding    `json:"warnings"            yaml:"warnings"`
}

func ratio(observed, total int) string {
	return strconv.Itoa(observed) + "/" + strconv.Itoa(total)
}
