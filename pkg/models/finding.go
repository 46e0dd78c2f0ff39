package models

import (
	"cmp"
	"slices"
)

// Severity tells whether a finding blocks use of a flow.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FindingCode names the rule that produced a finding.
type FindingCode string

const (
	// Parse and normalize failures, one per flow.
	CodeParseError      FindingCode = "ParseError"
	CodeDuplicateNodeID FindingCode = "DuplicateNodeId"
	CodeUnknownNodeType FindingCode = "UnknownNodeType"
	CodeInvalidSpec     FindingCode = "InvalidSpec"
	CodeDuplicateFlowID FindingCode = "DuplicateFlowId"

	// Structural findings.
	CodeTriggerCardinality FindingCode = "TriggerCardinality"
	CodeOrphanNode         FindingCode = "OrphanNode"
	CodeDeadEnd            FindingCode = "DeadEnd"
	CodeUnwiredPort        FindingCode = "UnwiredPort"
	CodeUnknownPort        FindingCode = "UnknownPort"
	CodeAmbiguousPort      FindingCode = "AmbiguousPort"
	CodeDanglingConnection FindingCode = "DanglingConnection"

	// Reference findings.
	CodeDanglingReference FindingCode = "DanglingReference"
	CodeUnmatchedEvent    FindingCode = "UnmatchedEvent"

	// Node configuration findings.
	CodeInvalidTriggerConfig FindingCode = "InvalidTriggerConfig"
	CodeMissingTriggerKind   FindingCode = "MissingTriggerKind"
	CodeUnknownTriggerKind   FindingCode = "UnknownTriggerKind"
	CodeIncompleteSpec       FindingCode = "IncompleteSpec"
)

// Finding is a single validator-produced error or warning.
type Finding struct {
	Severity Severity    `json:"severity"         yaml:"severity"`
	Code     FindingCode `json:"code"             yaml:"code"`
	FlowID   string      `json:"flowId"           yaml:"flowId"`
	NodeID   string      `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	Message  string      `json:"message"          yaml:"message"`
}

// Location returns "flow/node", or just the flow for flow-level findings.
func (f Finding) Location() string {
	if f.NodeID == "" {
		return f.FlowID
	}

	return f.FlowID + "/" + f.NodeID
}

func (f Finding) String() string {
	return string(f.Code) + " " + f.Location() + ": " + f.Message
}

// CompareFindings orders findings by flow, node, code and message.
func CompareFindings(a, b Finding) int {
	return cmp.Or(
		cmp.Compare(a.FlowID, b.FlowID),
		cmp.Compare(a.NodeID, b.NodeID),
		cmp.Compare(a.Code, b.Code),
		cmp.Compare(a.Message, b.Message),
	)
}

// SortFindings sorts findings in place using CompareFindings.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, CompareFindings)
}

// ValidationResult holds the findings of one or more flows, split by severity.
type ValidationResult struct {
	Errors   []Finding `json:"errors"   yaml:"errors"`
	Warnings []Finding `json:"warnings" yaml:"warnings"`
}

// Add files a finding under its severity.
func (r *ValidationResult) Add(findings ...Finding) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			r.Errors = append(r.Errors, f)
		} else {
			r.Warnings = append(r.Warnings, f)
		}
	}
}

// Merge appends the findings of another result.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// Sort orders both lists with SortFindings.
func (r *ValidationResult) Sort() {
	SortFindings(r.Errors)
	SortFindings(r.Warnings)
}

// Valid reports whether the result carries no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Count returns how many findings carry the given code.
func (r *ValidationResult) Count(code FindingCode) int {
	count := 0

	for _, f := range r.Errors {
		if f.Code == code {
			count++
		}
	}

	for _, f := range r.Warnings {
		if f.Code == code {
			count++
		}
	}

	return count
}
