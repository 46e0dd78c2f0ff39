package graph

import (
	"errors"
	"fmt"

	"github.com/dukex/ddd-validator/pkg/models"
)

var (
	// ErrParse is wrapped by every ParseError.
	ErrParse = errors.New("flow parse error")

	// ErrNilCatalog is returned when Build is called without a catalog.
	ErrNilCatalog = errors.New("graph: catalog is required")

	// ErrNilDocument is returned when BuildDocument is called with a nil document.
	ErrNilDocument = errors.New("graph: flow document is required")
)

// ParseErrorKind classifies why a flow could not be turned into a graph.
type ParseErrorKind string

const (
	KindDuplicateNodeID ParseErrorKind = "duplicate_node_id"
	KindUnknownNodeType ParseErrorKind = "unknown_node_type"
	KindMissingNodeID   ParseErrorKind = "missing_node_id"
	KindInvalidSpec     ParseErrorKind = "invalid_spec"
)

// ParseError is fatal for the flow it belongs to and only that flow.
type ParseError struct {
	Kind   ParseErrorKind
	FlowID string
	NodeID string
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: flow %s: %s: %v", ErrParse, e.FlowID, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: flow %s: %s", ErrParse, e.FlowID, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}

	return []error{ErrParse}
}

// Code maps the error kind to its finding code.
func (e *ParseError) Code() models.FindingCode {
	switch e.Kind {
	case KindDuplicateNodeID:
		return models.CodeDuplicateNodeID
	case KindUnknownNodeType:
		return models.CodeUnknownNodeType
	case KindInvalidSpec:
		return models.CodeInvalidSpec
	default:
		return models.CodeParseError
	}
}

// Finding renders the error as the single top-level finding of its flow.
func (e *ParseError) Finding() models.Finding {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}

	return models.Finding{
		Severity: models.SeverityError,
		Code:     e.Code(),
		FlowID:   e.FlowID,
		NodeID:   e.NodeID,
		Message:  msg,
	}
}

// IsParseError checks if an error is a flow parse error.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// AsParseError extracts a ParseError from an error chain.
func AsParseError(err error) (*ParseError, bool) {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr, true
	}

	return nil, false
}
