// Package loader reads DDD projects into the in-memory model the validator works on.
package loader

import (
	"context"

	"github.com/dukex/ddd-validator/pkg/models"
)

// Loader produces a project from some storage.
type Loader interface {
	// Load reads the whole project. Flow files that cannot be parsed do not
	// fail the load: they are recorded in Project.Files with their error.
	Load(ctx context.Context) (*models.Project, error)
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
