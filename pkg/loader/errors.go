package loader

import (
	"errors"
	"fmt"
)

var (
	// ErrProjectNotFound indicates the project root does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrInvalidFlow indicates a flow file is not a well-formed flow document.
	ErrInvalidFlow = errors.New("invalid flow document")

	// ErrInvalidShared indicates a shared definitions file could not be read.
	ErrInvalidShared = errors.New("invalid shared definitions")
)

// LoadError wraps loading errors with the file involved.
type LoadError struct {
	Op      string // Operation being performed (e.g., "ParseFlow", "ReadShared")
	Path    string // File or directory involved
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *LoadError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed for %s: %s (%v)", e.Op, e.Path, e.Message, e.Err)
	}

	return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for load errors.
func (e *LoadError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewLoadError creates a new load error with context.
func NewLoadError(op, path string, err error) *LoadError {
	return &LoadError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsProjectNotFound checks if an error indicates the project root is missing.
func IsProjectNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound)
}

// IsInvalidFlow checks if an error indicates a malformed flow document.
func IsInvalidFlow(err error) bool {
	return errors.Is(err, ErrInvalidFlow)
}
