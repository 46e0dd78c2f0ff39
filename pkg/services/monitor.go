package services

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/dukex/ddd-validator/pkg/eventbus"
	"github.com/dukex/ddd-validator/pkg/events"
)

// DefaultRunHistory is how many completed runs a RunMonitor keeps.
const DefaultRunHistory = 50

// RunMonitor consumes validation lifecycle events: it logs them and keeps the
// most recent completed runs.
type RunMonitor struct {
	logger *slog.Logger
	limit  int

	mu   sync.RWMutex
	runs []events.ValidationCompleted
}

// NewRunMonitor creates a monitor keeping at most limit runs. Values below
// one mean DefaultRunHistory.
func NewRunMonitor(logger *slog.Logger, limit int) *RunMonitor {
	if limit < 1 {
		limit = DefaultRunHistory
	}

	return &RunMonitor{
		logger: logger.With("module", "run_monitor"),
		limit:  limit,
	}
}

// Start registers the monitor's handlers and subscribes to the bus.
func (m *RunMonitor) Start(ctx context.Context, bus eventbus.EventSubscriber) error {
	err := bus.Handle(events.ValidationStartedEvent, m.handleValidationStarted)
	if err != nil {
		return err
	}

	err = bus.Handle(events.FlowValidatedEvent, m.handleFlowValidated)
	if err != nil {
		return err
	}

	err = bus.Handle(events.ValidationCompletedEvent, m.handleValidationCompleted)
	if err != nil {
		return err
	}

	err = bus.Subscribe(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	return nil
}

// Runs returns the recorded runs, newest first.
func (m *RunMonitor) Runs() []events.ValidationCompleted {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := slices.Clone(m.runs)
	slices.Reverse(runs)

	return runs
}

func (m *RunMonitor) handleValidationStarted(ctx context.Context, event any) error {
	started, ok := event.(*events.ValidationStarted)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for ValidationStarted")

		return nil
	}

	m.logger.DebugContext(ctx, "Validation started",
		"run_id", started.RunID,
		"project", started.Project,
		"files", started.FileCount,
		"flows", started.FlowCount)

	return nil
}

func (m *RunMonitor) handleFlowValidated(ctx context.Context, event any) error {
	flow, ok := event.(*events.FlowValidated)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for FlowValidated")

		return nil
	}

	logger := m.logger.With("run_id", flow.RunID, "flow_id", flow.FlowID)

	if !flow.Normalized {
		logger.WarnContext(ctx, "Flow could not be normalized", "source", flow.Source)

		return nil
	}

	logger.DebugContext(ctx, "Flow validated",
		"errors", flow.ErrorCount,
		"warnings", flow.WarningCount)

	return nil
}

func (m *RunMonitor) handleValidationCompleted(ctx context.Context, event any) error {
	completed, ok := event.(*events.ValidationCompleted)
	if !ok {
		m.logger.ErrorContext(ctx, "Invalid event type for ValidationCompleted")

		return nil
	}

	m.mu.Lock()
	m.runs = append(m.runs, *completed)
	if len(m.runs) > m.limit {
		m.runs = slices.Delete(m.runs, 0, len(m.runs)-m.limit)
	}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Validation completed",
		"run_id", completed.RunID,
		"project", completed.Project,
		"score", completed.ScorePct,
		"label", completed.QualityLabel,
		"duration", completed.Duration)

	return nil
}
