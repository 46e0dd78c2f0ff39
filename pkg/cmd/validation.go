package cmd

import (
	"log/slog"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/config"
	"github.com/dukex/ddd-validator/pkg/coverage"
	"github.com/dukex/ddd-validator/pkg/eventbus"
	"github.com/dukex/ddd-validator/pkg/services"
	"go.opentelemetry.io/otel/trace"
)

// NewCatalog loads the catalog at path, or the embedded one when path is empty.
func NewCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}

	return catalog.Load(path)
}

// NewValidation wires a validation service from a project configuration.
// A nil bus disables event publishing; a nil tracer disables tracing.
func NewValidation(cfg config.Config, catalogOverride string, bus eventbus.EventPublisher, tracer trace.Tracer, logger *slog.Logger) (*services.Validation, error) {
	catalogPath := cfg.Catalog
	if catalogOverride != "" {
		catalogPath = catalogOverride
	}

	cat, err := NewCatalog(catalogPath)
	if err != nil {
		return nil, err
	}

	analyzer, err := coverage.New(cat,
		coverage.WithWeights(cfg.Score),
		coverage.WithThresholds(cfg.Thresholds),
	)
	if err != nil {
		return nil, err
	}

	opts := []services.ValidationOption{
		services.WithAnalyzer(analyzer),
		services.WithWorkers(cfg.Workers),
		services.WithOptionalReferences(cfg.OptionalReferences...),
		services.WithLogger(logger.With("module", "validation_service")),
	}

	if bus != nil {
		opts = append(opts, services.WithPublisher(bus))
	}

	if tracer != nil {
		opts = append(opts, services.WithTracer(tracer))
	}

	return services.NewValidation(cat, opts...)
}
