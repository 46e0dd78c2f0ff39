package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/dukex/ddd-validator/pkg/catalog"
	"github.com/dukex/ddd-validator/pkg/coverage"
	"github.com/dukex/ddd-validator/pkg/eventbus"
	"github.com/dukex/ddd-validator/pkg/events"
	"github.com/dukex/ddd-validator/pkg/graph"
	"github.com/dukex/ddd-validator/pkg/loader"
	"github.com/dukex/ddd-validator/pkg/log"
	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/dukex/ddd-validator/pkg/otelhelper"
	"github.com/dukex/ddd-validator/pkg/report"
	"github.com/dukex/ddd-validator/pkg/validator"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Validation validates whole projects: it parses and normalizes every flow,
// builds the project lookup tables once, validates the flows in parallel and
// aggregates coverage and reports.
type Validation struct {
	catalog   *catalog.Catalog
	analyzer  *coverage.Analyzer
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	logger    *slog.Logger
	workers   int
	optional  []models.ReferenceKind
}

// ValidationOption configures a Validation service.
type ValidationOption func(*Validation)

// WithPublisher publishes lifecycle events for every run.
func WithPublisher(publisher eventbus.EventPublisher) ValidationOption {
	return func(s *Validation) {
		s.publisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) ValidationOption {
	return func(s *Validation) {
		s.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) ValidationOption {
	return func(s *Validation) {
		s.logger = logger
	}
}

// WithWorkers bounds how many flows are validated at once. Values below one
// mean one worker per CPU.
func WithWorkers(workers int) ValidationOption {
	return func(s *Validation) {
		s.workers = workers
	}
}

// WithOptionalReferences downgrades dangling references of these kinds to warnings.
func WithOptionalReferences(kinds ...models.ReferenceKind) ValidationOption {
	return func(s *Validation) {
		s.optional = kinds
	}
}

func WithAnalyzer(analyzer *coverage.Analyzer) ValidationOption {
	return func(s *Validation) {
		s.analyzer = analyzer
	}
}

// NewValidation creates a validation service over a catalog.
func NewValidation(cat *catalog.Catalog, opts ...ValidationOption) (*Validation, error) {
	if cat == nil {
		return nil, ErrCatalogNil
	}

	s := &Validation{
		catalog: cat,
		tracer:  otelhelper.NoopTracer(),
		logger:  log.WithModule("validation_service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	for _, kind := range s.optional {
		if !slices.Contains(models.ReferenceKinds(), kind) {
			return nil, NewValidationError("NewValidation", "invalid_reference_kind",
				fmt.Sprintf("unknown reference kind %q", kind), ErrInvalidRequest)
		}
	}

	if s.analyzer == nil {
		analyzer, err := coverage.New(cat)
		if err != nil {
			return nil, err
		}

		s.analyzer = analyzer
	}

	if s.workers < 1 {
		s.workers = runtime.GOMAXPROCS(0)
	}

	return s, nil
}

// Catalog returns the catalog flows are checked against.
func (s *Validation) Catalog() *catalog.Catalog {
	return s.catalog
}

// Result is everything one validation run produced.
type Result struct {
	RunID         string                         `json:"runId"             yaml:"runId"`
	Project       string                         `json:"project,omitempty" yaml:"project,omitempty"`
	Stats         models.ParseStats              `json:"-"                 yaml:"-"`
	Findings      models.ValidationResult        `json:"-"                 yaml:"-"`
	Coverage      models.CoverageReport          `json:"coverage"          yaml:"coverage"`
	Compatibility models.ToolCompatibilityReport `json:"toolCompatibility" yaml:"toolCompatibility"`
	Quality       models.SpecQualityReport       `json:"specQuality"       yaml:"specQuality"`
}

// normalized is one flow document after graph construction.
type normalized struct {
	doc   *models.FlowDocument
	graph *graph.FlowGraph
}

// ValidateLoaded loads a project and validates it.
func (s *Validation) ValidateLoaded(ctx context.Context, l loader.Loader) (*Result, error) {
	project, err := l.Load(ctx)
	if err != nil {
		return nil, &ServiceError{Op: "LoadProject", Code: "load_failed", Err: err}
	}

	return s.ValidateProject(ctx, project)
}

// ValidateProject runs the full pipeline over a project. Findings never turn
// into errors: the error is only for nil input or a cancelled context.
func (s *Validation) ValidateProject(ctx context.Context, project *models.Project) (*Result, error) {
	if project == nil {
		return nil, NewValidationError("ValidateProject", "project_required", "", ErrProjectNil)
	}

	runID := uuid.New().String()
	started := time.Now()

	logger := s.logger.With("run_id", runID, "project", project.Name)
	ctx = log.ContextWithLogger(ctx, logger)

	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "project.validate",
		attribute.String(otelhelper.RunIDKey, runID),
		attribute.String(otelhelper.ProjectNameKey, project.Name),
	)
	defer span.End()

	stats, findings := parseStats(project)

	s.publish(ctx, runID, events.ValidationStarted{
		BaseEvent: events.NewBaseEvent(events.ValidationStartedEvent, runID, project.Name),
		FileCount: stats.TotalFiles,
		FlowCount: len(project.Flows),
	})

	flows, normalizeFindings := s.normalize(ctx, runID, project)
	findings.Add(normalizeFindings...)

	stats.NormalizedOK = len(flows)
	stats.NormalizedFailed = len(project.Flows) - len(flows)

	graphs := make([]*graph.FlowGraph, len(flows))
	for i, flow := range flows {
		graphs[i] = flow.graph
	}

	// Every flow id and emitted event must be known before any flow is
	// validated, so the tables are built here, once.
	tables := validator.NewTables(project, graphs, s.optional...)

	v, err := validator.New(s.catalog, validator.WithLookup(tables))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	perFlow, err := s.validateFlows(ctx, runID, project.Name, v, flows)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	for _, result := range perFlow {
		findings.Merge(result)
	}

	findings.Add(validator.UnmatchedEvents(graphs)...)
	findings.Sort()

	cov := s.analyzer.Analyze(graphs, findings)
	compat := report.Compatibility(stats, cov)
	quality := report.Quality(findings, cov, s.analyzer.Label(cov.ScorePct))

	span.SetAttributes(
		attribute.Int(otelhelper.ScorePctKey, cov.ScorePct),
		attribute.String(otelhelper.CompatibilityKey, string(compat.Compatibility)),
	)
	otelhelper.SetFindings(span, len(findings.Errors), len(findings.Warnings))

	s.publish(ctx, runID, events.ValidationCompleted{
		BaseEvent:     events.NewBaseEvent(events.ValidationCompletedEvent, runID, project.Name),
		ScorePct:      cov.ScorePct,
		QualityLabel:  quality.QualityLabel,
		Compatibility: compat.Compatibility,
		ErrorCount:    len(findings.Errors),
		WarningCount:  len(findings.Warnings),
		Duration:      time.Since(started),
	})

	logger.InfoContext(ctx, "Project validated",
		"flows", len(project.Flows),
		"errors", len(findings.Errors),
		"warnings", len(findings.Warnings),
		"score", cov.ScorePct,
		"compatibility", compat.Compatibility)

	return &Result{
		RunID:         runID,
		Project:       project.Name,
		Stats:         stats,
		Findings:      findings,
		Coverage:      cov,
		Compatibility: compat,
		Quality:       quality,
	}, nil
}

// parseStats counts files and turns every unparsable file into a ParseError
// finding. Projects built in memory have no file list: each flow is one file.
func parseStats(project *models.Project) (models.ParseStats, models.ValidationResult) {
	var (
		stats    models.ParseStats
		findings models.ValidationResult
	)

	if len(project.Files) == 0 {
		stats.TotalFiles = len(project.Flows)
		stats.ParsedOK = len(project.Flows)

		return stats, findings
	}

	stats.TotalFiles = len(project.Files)

	for _, file := range project.Files {
		if file.Status != models.FileStatusFailed {
			stats.ParsedOK++

			continue
		}

		stats.ParsedFailed++

		findings.Add(models.Finding{
			Severity: models.SeverityError,
			Code:     models.CodeParseError,
			FlowID:   file.Path,
			Message:  cmp.Or(file.Error, "file could not be parsed"),
		})
	}

	return stats, findings
}

// normalize builds the graph of every flow in document order. Flows with a
// missing or duplicate id and flows that fail to build are reported and skipped.
func (s *Validation) normalize(ctx context.Context, runID string, project *models.Project) ([]normalized, []models.Finding) {
	logger := log.FromContext(ctx, s.logger)

	var (
		flows    []normalized
		findings []models.Finding
	)

	seen := make(map[string]string, len(project.Flows))

	for i := range project.Flows {
		doc := &project.Flows[i]
		id := doc.ID()

		var failure *models.Finding

		switch previous, duplicate := seen[id]; {
		case id == "":
			failure = &models.Finding{
				Severity: models.SeverityError,
				Code:     models.CodeParseError,
				FlowID:   cmp.Or(doc.Source, fmt.Sprintf("flows[%d]", i)),
				Message:  "flow has no id",
			}
		case duplicate:
			failure = &models.Finding{
				Severity: models.SeverityError,
				Code:     models.CodeDuplicateFlowID,
				FlowID:   id,
				Message:  fmt.Sprintf("flow id %q is already used by %s", id, previous),
			}
		default:
			seen[id] = cmp.Or(doc.Source, fmt.Sprintf("flows[%d]", i))

			g, err := graph.BuildDocument(doc, s.catalog)
			if err == nil {
				flows = append(flows, normalized{doc: doc, graph: g})

				continue
			}

			parseErr, ok := graph.AsParseError(err)
			if !ok {
				parseErr = &graph.ParseError{Kind: graph.KindInvalidSpec, FlowID: id, Msg: "flow could not be built", Err: err}
			}

			f := parseErr.Finding()
			failure = &f
		}

		logger.WarnContext(ctx, "Flow not normalized", "flow_id", id, "code", failure.Code, "reason", failure.Message)

		findings = append(findings, *failure)

		s.publish(ctx, runID, events.FlowValidated{
			BaseEvent:  events.NewBaseEvent(events.FlowValidatedEvent, runID, project.Name),
			FlowID:     id,
			Source:     doc.Source,
			Normalized: false,
			ErrorCount: 1,
		})
	}

	return flows, findings
}

// validateFlows fans the graphs out to a bounded pool of workers. Each
// worker writes only its own slot, so results come back in flow order.
func (s *Validation) validateFlows(ctx context.Context, runID, project string, v *validator.Validator, flows []normalized) ([]models.ValidationResult, error) {
	results := make([]models.ValidationResult, len(flows))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for i, flow := range flows {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := s.validateFlow(ctx, v, flow)
			if err != nil {
				return err
			}

			results[i] = result

			s.publish(ctx, runID, events.FlowValidated{
				BaseEvent:    events.NewBaseEvent(events.FlowValidatedEvent, runID, project),
				FlowID:       flow.graph.ID(),
				Source:       flow.doc.Source,
				Normalized:   true,
				ErrorCount:   len(result.Errors),
				WarningCount: len(result.Warnings),
			})

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("validate flows: %w", err)
	}

	return results, nil
}

func (s *Validation) validateFlow(ctx context.Context, v *validator.Validator, flow normalized) (models.ValidationResult, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "flow.validate",
		attribute.String(otelhelper.FlowIDKey, flow.graph.ID()),
		attribute.String(otelhelper.FlowSourceKey, flow.doc.Source),
		attribute.Int(otelhelper.NodeCountKey, len(flow.doc.Nodes)),
	)
	defer span.End()

	result, err := v.Validate(flow.graph)
	if err != nil {
		otelhelper.SetError(span, err)

		return models.ValidationResult{}, err
	}

	otelhelper.SetFindings(span, len(result.Errors), len(result.Warnings))

	log.FromContext(ctx, s.logger).DebugContext(ctx, "Flow validated",
		"flow_id", flow.graph.ID(),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings))

	return result, nil
}

// publish sends an event when a publisher is configured. Publishing failures
// never fail a validation run.
func (s *Validation) publish(ctx context.Context, runID string, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, runID, event); err != nil {
		log.FromContext(ctx, s.logger).ErrorContext(ctx, "Failed to publish validation event",
			"event_type", event.GetType(),
			"error", err)
	}
}
