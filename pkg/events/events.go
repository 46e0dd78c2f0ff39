// Package events defines the validation lifecycle events published on the event bus.
package events

import (
	"time"

	"github.com/dukex/ddd-validator/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every validation event.
const Topic = "ddd.validation.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ValidationStartedEvent   EventType = "validation.started"
	FlowValidatedEvent       EventType = "flow.validated"
	ValidationCompletedEvent EventType = "validation.completed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Project   string         `json:"project,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of the given type for a validation run.
func NewBaseEvent(eventType EventType, runID, project string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     runID,
		Project:   project,
	}
}

type ValidationStarted struct {
	BaseEvent

	FileCount int `json:"file_count"`
	FlowCount int `json:"flow_count"`
}

func (e ValidationStarted) GetType() EventType {
	return ValidationStartedEvent
}

// FlowValidated is published once per flow document, including flows that
// failed to normalize.
type FlowValidated struct {
	BaseEvent

	FlowID       string `json:"flow_id"`
	Source       string `json:"source,omitempty"`
	Normalized   bool   `json:"normalized"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
}

func (e FlowValidated) GetType() EventType {
	return FlowValidatedEvent
}

type ValidationCompleted struct {
	BaseEvent

	ScorePct      int                  `json:"score_pct"`
	QualityLabel  models.QualityLabel  `json:"quality_label"`
	Compatibility models.Compatibility `json:"compatibility"`
	ErrorCount    int                  `json:"error_count"`
	WarningCount  int                  `json:"warning_count"`
	Duration      time.Duration        `json:"duration"`
}

func (e ValidationCompleted) GetType() EventType {
	return ValidationCompletedEvent
}
